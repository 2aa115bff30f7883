package kafka

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/forecast-lead-service/internal/domain"
	"github.com/couchcryptid/forecast-lead-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2025, 12, 15, 12, 30, 0, 0, time.UTC)
	outcome := domain.ForecastOutcome{
		RequestID:     "req-1",
		Source:        domain.SourceFallbackBackendErr,
		BackendStatus: 500,
		Lat:           -23.55,
		Lon:           -46.63,
		Datetime:      "2025-12-15 15:00",
		Duration:      120 * time.Millisecond,
		RecordedAt:    now,
	}

	msg, err := serializeToMessage(outcome)
	require.NoError(t, err)

	assert.Equal(t, []byte("req-1"), msg.Key)
	assert.Equal(t, now, msg.Time)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "mock-fallback-backend-error", body["source"])
	assert.Equal(t, 500.0, body["backend_status"])
	assert.Equal(t, 120e6, body["duration_ns"])
	assert.NotContains(t, body, "address")

	require.Len(t, msg.Headers, 3)
	assert.Equal(t, kafkago.Header{Key: "source", Value: []byte("mock-fallback-backend-error")}, msg.Headers[0])
	assert.Equal(t, kafkago.Header{Key: "fallback", Value: []byte("true")}, msg.Headers[1])
	assert.Equal(t, "recorded_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)
}

func TestSerializeToMessage_BackendOutcome(t *testing.T) {
	msg, err := serializeToMessage(domain.ForecastOutcome{RequestID: "req-2", Source: domain.SourceBackend})
	require.NoError(t, err)

	assert.Equal(t, []byte("false"), msg.Headers[1].Value)
	assert.NotContains(t, string(msg.Value), "backend_status")
}

func TestWriter_Completion(t *testing.T) {
	m := observability.NewMetricsForTesting()
	w := &Writer{metrics: m, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	w.completion(make([]kafkago.Message, 3), nil)
	w.completion(make([]kafkago.Message, 2), io.ErrUnexpectedEOF)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.OutcomesPublished))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OutcomePublishErrors))
}
