package domain

import (
	"math"
	"time"
)

// Source tags where a served forecast came from.
type Source string

const (
	SourceBackend            Source = "backend"
	SourceMock               Source = "mock"
	SourceFallbackBackendErr Source = "mock-fallback-backend-error"
	SourceFallbackBadFormat  Source = "mock-fallback-bad-format"
	SourceFallbackException  Source = "mock-fallback-exception"
)

// IsFallback reports whether the mock was served because the upstream failed.
func (s Source) IsFallback() bool {
	switch s {
	case SourceFallbackBackendErr, SourceFallbackBadFormat, SourceFallbackException:
		return true
	default:
		return false
	}
}

// ForecastOutcome is an anonymised record of how a forecast request was
// served. It carries no address data; coordinates are rounded to two
// decimals (~1 km).
type ForecastOutcome struct {
	RequestID     string        `json:"request_id"`
	Source        Source        `json:"source"`
	BackendStatus int           `json:"backend_status,omitempty"`
	Lat           float64       `json:"lat"`
	Lon           float64       `json:"lon"`
	Datetime      string        `json:"datetime"`
	Duration      time.Duration `json:"duration_ns"`
	RecordedAt    time.Time     `json:"recorded_at"`
}

// NewForecastOutcome builds an outcome record stamped with the package clock.
func NewForecastOutcome(requestID string, resp ForecastResponse, datetime string, took time.Duration) ForecastOutcome {
	return ForecastOutcome{
		RequestID:     requestID,
		Source:        resp.Source,
		BackendStatus: resp.BackendStatus,
		Lat:           roundTo(resp.Lat, 2),
		Lon:           roundTo(resp.Lon, 2),
		Datetime:      datetime,
		Duration:      took,
		RecordedAt:    clock.Now().UTC(),
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
