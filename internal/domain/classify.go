package domain

// Comfort thresholds used to label a forecast.
const (
	veryHotC              = 32.0 // °C
	veryColdC             = 13.0 // °C
	strongWindKmh         = 40.0 // km/h
	heavyRainMmH          = 5.0  // mm/h
	uncomfortableHumidity = 70.0 // %
)

// Weather classification labels.
const (
	ClassVeryUncomfortable = "very uncomfortable"
	ClassVeryWet           = "very wet"
	ClassVeryHot           = "very hot"
	ClassVeryCold          = "very cold"
	ClassVeryWindy         = "very windy"
	ClassNormal            = "Normal"
)

// Classify labels a forecast by its most notable condition. Missing metrics
// count as zero. Precipitation reported as a mass flux ("precipitation",
// kg m-2 s-1) is converted to mm/h; a "rain" metric is taken as mm/h.
// Humidity given as a fraction is scaled to percent.
func Classify(metrics map[string]ForecastMetric) string {
	temp := metrics["temperature"].Predicted
	wind := metrics["wind_speed"].Predicted

	humidity := metrics["humidity"].Predicted
	if humidity > 0 && humidity <= 1 {
		humidity *= 100
	}

	var rain float64
	if m, ok := metrics["precipitation"]; ok {
		rain = m.Predicted * 3600
	} else {
		rain = metrics["rain"].Predicted
	}

	switch {
	case temp >= veryHotC && humidity > uncomfortableHumidity:
		return ClassVeryUncomfortable
	case rain > heavyRainMmH:
		return ClassVeryWet
	case temp >= veryHotC:
		return ClassVeryHot
	case temp < veryColdC:
		return ClassVeryCold
	case wind > strongWindKmh:
		return ClassVeryWindy
	default:
		return ClassNormal
	}
}
