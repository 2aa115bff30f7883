package domain

import "fmt"

// DefaultModel is reported when the upstream omits the model name.
const DefaultModel = "N/A"

// Normalize converts an upstream forecast into the canonical shape. The
// location must resolve; every other field is passed through or defaulted.
// Normalizing the result of NormalizedForecast.Raw yields the same forecast.
func Normalize(raw RawForecastResponse) (NormalizedForecast, error) {
	coords, err := ResolveLocation(raw.Data.Location)
	if err != nil {
		return NormalizedForecast{}, fmt.Errorf("resolve location: %w", err)
	}

	metrics := make(map[string]ForecastMetric, len(raw.Data.Forecast))
	for key, m := range raw.Data.Forecast {
		metrics[key] = ClampMetric(key, m)
	}

	out := NormalizedForecast{
		Lat:       coords.Lat,
		Lon:       coords.Lon,
		Timestamp: raw.Data.Timestamp,
		Metrics:   metrics,
		Model:     DefaultModel,
	}
	if info := raw.ModelInfo; info != nil {
		if info.Model != "" {
			out.Model = info.Model
		}
		out.TrainedUntil = info.TrainedUntil
		out.DataSource = info.DataSource
	}
	return out, nil
}
