package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPrecipitation(t *testing.T) {
	for _, key := range []string{"rain", "Rain", "RAIN_1H", "precipitation", "PRECTOTCORR", "total_precip", "no_rain_prob"} {
		assert.True(t, IsPrecipitation(key), key)
	}
	for _, key := range []string{"temperature", "humidity", "wind_speed", "water_vapor", "pressure", ""} {
		assert.False(t, IsPrecipitation(key), key)
	}
}

func TestClampMetric(t *testing.T) {
	t.Run("negative precipitation low bound floored", func(t *testing.T) {
		m := ForecastMetric{Predicted: 1, Interval90: Interval{-0.4, 3.2}, Unit: "mm"}
		got := ClampMetric("rain", m)
		assert.Equal(t, Interval{0, 3.2}, got.Interval90)
		assert.Equal(t, 1.0, got.Predicted)
		assert.Equal(t, "mm", got.Unit)
		assert.Equal(t, -0.4, m.Interval90[0], "input must not be modified")
	})

	t.Run("non-negative precipitation unchanged", func(t *testing.T) {
		m := ForecastMetric{Interval90: Interval{0.5, 3.2}}
		assert.Equal(t, m, ClampMetric("precipitation", m))
	})

	t.Run("already clamped zero stays zero", func(t *testing.T) {
		m := ForecastMetric{Interval90: Interval{0, 3.2}}
		assert.Equal(t, m, ClampMetric("rain", ClampMetric("rain", m)))
	})

	t.Run("non-precipitation negative bound kept", func(t *testing.T) {
		m := ForecastMetric{Interval90: Interval{-12, -2}, Unit: "°C"}
		assert.Equal(t, m, ClampMetric("temperature", m))
	})

	t.Run("high bound never touched", func(t *testing.T) {
		m := ForecastMetric{Interval90: Interval{-2, -1}}
		got := ClampMetric("rain", m)
		assert.Equal(t, -1.0, got.Interval90.High())
	})
}
