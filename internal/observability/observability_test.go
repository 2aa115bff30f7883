package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/couchcryptid/forecast-lead-service/internal/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := NewLogger(&config.Config{LogLevel: "warn", LogFormat: "text"})

	require.NotNil(t, logger)
	ctx := context.Background()
	assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.True(t, logger.Enabled(ctx, slog.LevelWarn))
}

func TestRequestID(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
}

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.ForecastRequests.WithLabelValues("mock").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.ForecastRequests.WithLabelValues("mock")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ForecastRequests.WithLabelValues("mock")))
}
