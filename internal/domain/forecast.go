package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInterval reports an interval_90 that is not exactly two numbers.
	ErrInvalidInterval = errors.New("interval_90 must be an array of exactly two numbers")
	// ErrInvalidMetric reports a metric object missing a required member.
	ErrInvalidMetric = errors.New("invalid forecast metric")
)

// Interval is a [low, high] pair.
type Interval [2]float64

// Low returns the lower bound.
func (i Interval) Low() float64 { return i[0] }

// High returns the upper bound.
func (i Interval) High() float64 { return i[1] }

// UnmarshalJSON requires exactly two finite numbers. Missing or null bounds
// are rejected rather than zero-filled.
func (i *Interval) UnmarshalJSON(data []byte) error {
	var bounds []*float64
	if err := json.Unmarshal(data, &bounds); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	}
	if len(bounds) != 2 {
		return fmt.Errorf("%w: got %d bounds", ErrInvalidInterval, len(bounds))
	}
	for _, b := range bounds {
		if b == nil || math.IsNaN(*b) || math.IsInf(*b, 0) {
			return ErrInvalidInterval
		}
	}
	*i = Interval{*bounds[0], *bounds[1]}
	return nil
}

// ForecastMetric is one weather variable's probabilistic forecast. Members
// other than the ones modelled here are kept in Extra and written back out
// unchanged.
type ForecastMetric struct {
	Predicted     float64
	Interval90    Interval
	Probabilities map[string]float64
	Series        *Series
	Unit          string
	Extra         map[string]json.RawMessage
}

// metricFields is the wire form of the modelled members.
type metricFields struct {
	Predicted     *float64           `json:"predicted"`
	Interval90    *Interval          `json:"interval_90"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
	Series        *Series            `json:"series,omitempty"`
	Unit          string             `json:"unit,omitempty"`
}

var metricMembers = map[string]bool{
	"predicted":     true,
	"interval_90":   true,
	"probabilities": true,
	"series":        true,
	"unit":          true,
}

// UnmarshalJSON decodes a metric. predicted and interval_90 are required.
func (m *ForecastMetric) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMetric, err)
	}
	if members == nil {
		return fmt.Errorf("%w: metric is null", ErrInvalidMetric)
	}

	var f metricFields
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMetric, err)
	}
	if f.Predicted == nil {
		return fmt.Errorf("%w: missing predicted", ErrInvalidMetric)
	}
	if f.Interval90 == nil {
		return fmt.Errorf("%w: missing interval_90", ErrInvalidMetric)
	}

	*m = ForecastMetric{
		Predicted:     *f.Predicted,
		Interval90:    *f.Interval90,
		Probabilities: f.Probabilities,
		Series:        f.Series,
		Unit:          f.Unit,
	}
	for k, v := range members {
		if metricMembers[k] {
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return fmt.Errorf("%w: member %s: %v", ErrInvalidMetric, k, err)
		}
		if m.Extra == nil {
			m.Extra = make(map[string]json.RawMessage)
		}
		m.Extra[k] = buf.Bytes()
	}
	return nil
}

// MarshalJSON writes the modelled members followed by any extra ones.
func (m ForecastMetric) MarshalJSON() ([]byte, error) {
	predicted, interval := m.Predicted, m.Interval90
	fields := metricFields{
		Predicted:     &predicted,
		Interval90:    &interval,
		Probabilities: m.Probabilities,
		Series:        m.Series,
		Unit:          m.Unit,
	}
	if len(m.Extra) == 0 {
		return json.Marshal(fields)
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	for k, v := range m.Extra {
		if !metricMembers[k] {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

// RawLocation is the upstream location object. Only one of the two naming
// conventions is expected to be populated.
type RawLocation struct {
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// ModelInfo describes the model that produced an upstream forecast.
type ModelInfo struct {
	Model        string `json:"model,omitempty"`
	TrainedUntil string `json:"trained_until,omitempty"`
	DataSource   string `json:"data_source,omitempty"`
}

// RawForecastData is the "data" member of an upstream response.
type RawForecastData struct {
	Forecast  map[string]ForecastMetric `json:"forecast"`
	Location  RawLocation               `json:"location"`
	Timestamp string                    `json:"timestamp"`
}

// RawForecastResponse is the untrusted upstream forecast document.
type RawForecastResponse struct {
	Status    string          `json:"status,omitempty"`
	Data      RawForecastData `json:"data"`
	ModelInfo *ModelInfo      `json:"model_info,omitempty"`
}

// Coordinates is a canonical WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NormalizedForecast is the canonical, client-safe forecast shape.
type NormalizedForecast struct {
	Lat          float64                   `json:"lat"`
	Lon          float64                   `json:"lon"`
	Timestamp    string                    `json:"timestamp"`
	Metrics      map[string]ForecastMetric `json:"metrics"`
	Model        string                    `json:"model"`
	TrainedUntil string                    `json:"trainedUntil"`
	DataSource   string                    `json:"dataSource"`
}

// Raw re-wraps a normalized forecast into the upstream shape using the
// {lat, lon} spelling.
func (f NormalizedForecast) Raw() RawForecastResponse {
	lat, lon := f.Lat, f.Lon
	return RawForecastResponse{
		Data: RawForecastData{
			Forecast:  f.Metrics,
			Location:  RawLocation{Lat: &lat, Lon: &lon},
			Timestamp: f.Timestamp,
		},
		ModelInfo: &ModelInfo{
			Model:        f.Model,
			TrainedUntil: f.TrainedUntil,
			DataSource:   f.DataSource,
		},
	}
}

// ForecastResponse is a normalized forecast tagged with its provenance, as
// returned to clients.
type ForecastResponse struct {
	NormalizedForecast
	Source        Source `json:"source"`
	BackendStatus int    `json:"backendStatus,omitempty"`
}

// HasDataMember reports whether body is a JSON object with a top-level "data"
// member. A body that is not a JSON object reports false.
func HasDataMember(body []byte) bool {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return false
	}
	_, ok := top["data"]
	return ok
}
