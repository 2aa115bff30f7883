package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/forecast-lead-service/internal/config"
	"github.com/couchcryptid/forecast-lead-service/internal/domain"
	"github.com/couchcryptid/forecast-lead-service/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes forecast outcomes to a Kafka topic.
// It implements forecast.OutcomePublisher.
type Writer struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates an asynchronous Kafka producer for the configured outcome
// topic. Delivery results are reported through metrics and logs.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &Writer{metrics: metrics, logger: logger}
	w.writer = &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaOutcomeTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 100 * time.Millisecond,
		Async:        true,
		Completion:   w.completion,
	}
	return w
}

// Publish enqueues one outcome without blocking the caller. Failures are
// logged and counted; they never affect the forecast response.
func (w *Writer) Publish(ctx context.Context, outcome domain.ForecastOutcome) {
	msg, err := serializeToMessage(outcome)
	if err != nil {
		w.metrics.OutcomePublishErrors.Inc()
		w.logger.Error("serialize forecast outcome", "request_id", outcome.RequestID, "error", err)
		return
	}
	if err := w.writer.WriteMessages(context.WithoutCancel(ctx), msg); err != nil {
		w.metrics.OutcomePublishErrors.Inc()
		w.logger.Error("enqueue forecast outcome", "request_id", outcome.RequestID, "error", err)
	}
}

func (w *Writer) completion(messages []kafkago.Message, err error) {
	if err != nil {
		w.metrics.OutcomePublishErrors.Add(float64(len(messages)))
		w.logger.Error("kafka outcome write failed", "messages", len(messages), "error", err)
		return
	}
	w.metrics.OutcomesPublished.Add(float64(len(messages)))
}

// Close flushes pending messages and closes the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ForecastOutcome into a Kafka message keyed by
// request id.
func serializeToMessage(outcome domain.ForecastOutcome) (kafkago.Message, error) {
	data, err := json.Marshal(outcome)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast outcome: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(outcome.RequestID),
		Value: data,
		Time:  outcome.RecordedAt,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(outcome.Source)},
			{Key: "fallback", Value: []byte(strconv.FormatBool(outcome.Source.IsFallback()))},
			{Key: "recorded_at", Value: []byte(outcome.RecordedAt.Format(time.RFC3339))},
		},
	}, nil
}
