package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// MinSparklinePoints is the minimum series length worth drawing.
const MinSparklinePoints = 4

// SeriesPoint is one timestamped value of a metric series.
type SeriesPoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// Series is either a flat list of evenly spaced values or a list of
// timestamped points. It marshals back to whichever form it was decoded from.
type Series struct {
	Values []float64
	Points []SeriesPoint
}

// Len returns the number of samples in the series.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	if s.Points != nil {
		return len(s.Points)
	}
	return len(s.Values)
}

// Drawable reports whether the series is long enough for a sparkline.
func (s *Series) Drawable() bool {
	return s.Len() >= MinSparklinePoints
}

// Samples returns the series values regardless of representation.
func (s *Series) Samples() []float64 {
	if s == nil {
		return nil
	}
	if s.Points == nil {
		return s.Values
	}
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

var errSeriesShape = errors.New("series must be an array of numbers or of {time, value} points")

// UnmarshalJSON accepts both series representations.
func (s *Series) UnmarshalJSON(data []byte) error {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return fmt.Errorf("decode series: %w", errSeriesShape)
	}
	*s = Series{}
	if len(elems) == 0 {
		s.Values = []float64{}
		return nil
	}
	if bytes.HasPrefix(bytes.TrimSpace(elems[0]), []byte("{")) {
		points := make([]SeriesPoint, 0, len(elems))
		if err := json.Unmarshal(data, &points); err != nil {
			return fmt.Errorf("decode series points: %w", errSeriesShape)
		}
		s.Points = points
		return nil
	}
	values := make([]float64, 0, len(elems))
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("decode series values: %w", errSeriesShape)
	}
	s.Values = values
	return nil
}

// MarshalJSON writes the series in its original representation.
func (s Series) MarshalJSON() ([]byte, error) {
	if s.Points != nil {
		return json.Marshal(s.Points)
	}
	if s.Values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Values)
}
