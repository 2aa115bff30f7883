package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { SetClock(nil) })
}

func TestMockForecast_DefaultTimestamp(t *testing.T) {
	freezeClock(t, time.Date(2025, time.October, 4, 9, 30, 15, 0, time.UTC))

	raw := MockForecast()
	assert.Equal(t, "mock", raw.Status)
	assert.Equal(t, "2025-10-04 09:30:15", raw.Data.Timestamp)
	assert.Nil(t, raw.ModelInfo)

	coords, err := ResolveLocation(raw.Data.Location)
	require.NoError(t, err)
	assert.Equal(t, Coordinates{}, coords)
}

func TestNormalizedMock_SubstitutesRequest(t *testing.T) {
	out := NormalizedMock(-23.55, -46.63, "2025-12-15 15:00")

	assert.Equal(t, -23.55, out.Lat)
	assert.Equal(t, -46.63, out.Lon)
	assert.Equal(t, "2025-12-15 15:00", out.Timestamp)
	assert.Equal(t, DefaultModel, out.Model)
	assert.ElementsMatch(t,
		[]string{"temperature", "rain", "humidity", "wind_speed", "water_vapor"},
		keysOf(out.Metrics))
	for k, m := range out.Metrics {
		assert.LessOrEqual(t, m.Interval90.Low(), m.Interval90.High(), k)
		assert.True(t, m.Series.Drawable(), k)
	}
}

func TestNormalizedMock_FreshCopies(t *testing.T) {
	a := NormalizedMock(1, 2, "a")
	a.Metrics["temperature"].Series.Values[0] = 999
	delete(a.Metrics, "rain")

	b := NormalizedMock(1, 2, "b")
	assert.Equal(t, 25.0, b.Metrics["temperature"].Series.Values[0])
	assert.Contains(t, b.Metrics, "rain")
}

func keysOf(m map[string]ForecastMetric) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
