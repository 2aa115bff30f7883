package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSource_IsFallback(t *testing.T) {
	assert.False(t, SourceBackend.IsFallback())
	assert.False(t, SourceMock.IsFallback())
	assert.True(t, SourceFallbackBackendErr.IsFallback())
	assert.True(t, SourceFallbackBadFormat.IsFallback())
	assert.True(t, SourceFallbackException.IsFallback())
}

func TestNewForecastOutcome(t *testing.T) {
	now := time.Date(2025, time.December, 1, 12, 0, 0, 0, time.UTC)
	freezeClock(t, now)

	resp := ForecastResponse{
		NormalizedForecast: NormalizedForecast{Lat: -23.55123, Lon: -46.63789},
		Source:             SourceFallbackBackendErr,
		BackendStatus:      503,
	}
	out := NewForecastOutcome("req-1", resp, "2025-12-15 15:00", 120*time.Millisecond)

	assert.Equal(t, "req-1", out.RequestID)
	assert.Equal(t, SourceFallbackBackendErr, out.Source)
	assert.Equal(t, 503, out.BackendStatus)
	assert.InDelta(t, -23.55, out.Lat, 1e-9)
	assert.InDelta(t, -46.64, out.Lon, 1e-9)
	assert.Equal(t, 120*time.Millisecond, out.Duration)
	assert.Equal(t, now, out.RecordedAt)
}
