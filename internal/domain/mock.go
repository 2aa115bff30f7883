package domain

// mockTimestampLayout matches the "YYYY-MM-DD HH:MM:SS" timestamps the
// forecast backend emits.
const mockTimestampLayout = "2006-01-02 15:04:05"

// mockStatus marks the built-in payload.
const mockStatus = "mock"

func mockMetrics() map[string]ForecastMetric {
	return map[string]ForecastMetric{
		"temperature": {
			Predicted:  25,
			Interval90: Interval{20, 30},
			Series:     &Series{Values: []float64{25, 26, 27, 26, 25, 24}},
			Unit:       "°C",
		},
		"rain": {
			Predicted:  0.001,
			Interval90: Interval{0, 0.003},
			Series:     &Series{Values: []float64{0, 0.0005, 0.001, 0.0015, 0.0008, 0}},
			Unit:       "mm",
		},
		"humidity": {
			Predicted:  0.55,
			Interval90: Interval{0.40, 0.70},
			Series:     &Series{Values: []float64{0.55, 0.56, 0.54, 0.53, 0.57, 0.55}},
			Unit:       "",
		},
		"wind_speed": {
			Predicted:  12,
			Interval90: Interval{5, 22},
			Series:     &Series{Values: []float64{12, 13, 11, 10, 15, 14}},
			Unit:       "km/h",
		},
		"water_vapor": {
			Predicted:  28,
			Interval90: Interval{18, 38},
			Series:     &Series{Values: []float64{28, 27, 29, 30, 28, 26}},
			Unit:       "kg/m²",
		},
	}
}

// MockForecast returns a fresh copy of the built-in fallback payload located
// at (0, 0) and stamped with the current clock time.
func MockForecast() RawForecastResponse {
	lat, lon := 0.0, 0.0
	return RawForecastResponse{
		Status: mockStatus,
		Data: RawForecastData{
			Forecast:  mockMetrics(),
			Location:  RawLocation{Lat: &lat, Lon: &lon},
			Timestamp: clock.Now().UTC().Format(mockTimestampLayout),
		},
	}
}

// MockForecastAt returns the built-in payload with the caller's coordinates
// and timestamp substituted.
func MockForecastAt(lat, lon float64, timestamp string) RawForecastResponse {
	raw := MockForecast()
	raw.Data.Location = RawLocation{Lat: &lat, Lon: &lon}
	raw.Data.Timestamp = timestamp
	return raw
}

// NormalizedMock returns the normalized built-in forecast for a request.
func NormalizedMock(lat, lon float64, timestamp string) NormalizedForecast {
	// The mock always carries a complete {lat, lon} location.
	out, _ := Normalize(MockForecastAt(lat, lon, timestamp))
	return out
}

