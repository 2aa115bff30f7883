// Package forecast decides, per request, whether to call the forecast backend
// and how to answer when it is missing or misbehaves.
package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/forecast-lead-service/internal/domain"
	"github.com/couchcryptid/forecast-lead-service/internal/observability"
)

// maxLoggedBody caps how much of a failing backend body is logged.
const maxLoggedBody = 512

// OutcomePublisher records how a forecast request was served. Publish must not
// block the request.
type OutcomePublisher interface {
	Publish(ctx context.Context, outcome domain.ForecastOutcome)
}

// UpstreamError is returned under the strict policy when the backend answered
// with an error status or an unexpected body.
type UpstreamError struct {
	Source        domain.Source
	BackendStatus int
	Err           error
}

func (e *UpstreamError) Error() string {
	if e.BackendStatus != 0 {
		return fmt.Sprintf("forecast backend (%s, status %d): %v", e.Source, e.BackendStatus, e.Err)
	}
	return fmt.Sprintf("forecast backend (%s): %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

var (
	errBackendStatus = errors.New("unsuccessful status")
	errNoDataMember  = errors.New("response has no data member")
	errInvalidBody   = errors.New("response is not valid JSON")
)

// Options tune the service.
type Options struct {
	// StrictUpstream surfaces backend-error and bad-format outcomes as
	// *UpstreamError instead of serving the mock. Exceptions always fall back.
	StrictUpstream bool
	// UpstreamURL is logged with every backend failure.
	UpstreamURL string
	// Publisher receives an outcome per request. Nil disables publishing.
	Publisher OutcomePublisher
}

// Service serves normalized forecasts. A nil backend selects mock mode.
type Service struct {
	backend domain.ForecastBackend
	opts    Options
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewService creates a forecast service.
func NewService(backend domain.ForecastBackend, opts Options, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		backend: backend,
		opts:    opts,
		metrics: metrics,
		logger:  logger,
	}
}

// Forecast answers one request. The only error is *UpstreamError, and only
// under the strict policy.
func (s *Service) Forecast(ctx context.Context, req domain.ForecastRequest) (domain.ForecastResponse, error) {
	start := domain.Now()
	requestID := observability.RequestID(ctx)
	logger := s.logger.With("request_id", requestID)

	resp, err := s.forecast(ctx, logger, req)

	took := domain.Now().Sub(start)
	recorded := resp
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		recorded = domain.ForecastResponse{
			NormalizedForecast: domain.NormalizedForecast{Lat: req.Lat, Lon: req.Lon},
			Source:             upErr.Source,
			BackendStatus:      upErr.BackendStatus,
		}
	}
	s.metrics.ForecastRequests.WithLabelValues(string(recorded.Source)).Inc()
	s.metrics.ForecastDuration.Observe(took.Seconds())
	if s.opts.Publisher != nil {
		s.opts.Publisher.Publish(ctx, domain.NewForecastOutcome(requestID, recorded, req.Datetime, took))
	}

	return resp, err
}

func (s *Service) forecast(ctx context.Context, logger *slog.Logger, req domain.ForecastRequest) (domain.ForecastResponse, error) {
	if s.backend == nil {
		logger.Debug("no forecast backend configured, serving mock")
		return mock(req, domain.SourceMock, 0), nil
	}

	logger = logger.With("url", s.opts.UpstreamURL)
	logger.Info("calling forecast backend", "lat", req.Lat, "lon", req.Lon, "datetime", req.Datetime)

	reply, err := s.backend.Fetch(ctx, req)
	if err != nil {
		logger.Error("forecast backend unreachable", "error", err)
		return mock(req, domain.SourceFallbackException, 0), nil
	}

	if !reply.Success() {
		logger.Error("forecast backend error", "status", reply.Status, "body", truncate(reply.Body))
		return s.fail(req, domain.SourceFallbackBackendErr, reply.Status, fmt.Errorf("%w %d", errBackendStatus, reply.Status))
	}

	if !json.Valid(reply.Body) {
		logger.Error("forecast backend returned invalid JSON", "status", reply.Status, "error", errInvalidBody)
		return mock(req, domain.SourceFallbackException, 0), nil
	}

	if !domain.HasDataMember(reply.Body) {
		logger.Error("unexpected forecast backend format", "status", reply.Status, "error", errNoDataMember)
		return s.fail(req, domain.SourceFallbackBadFormat, 0, errNoDataMember)
	}

	var raw domain.RawForecastResponse
	if err := json.Unmarshal(reply.Body, &raw); err != nil {
		logger.Error("unexpected forecast backend format", "status", reply.Status, "error", err)
		return s.fail(req, domain.SourceFallbackBadFormat, 0, fmt.Errorf("decode response: %w", err))
	}

	normalized, err := domain.Normalize(raw)
	if err != nil {
		logger.Error("unexpected forecast backend format", "status", reply.Status, "error", err)
		return s.fail(req, domain.SourceFallbackBadFormat, 0, err)
	}

	return domain.ForecastResponse{NormalizedForecast: normalized, Source: domain.SourceBackend}, nil
}

// fail applies the configured policy to a backend-error or bad-format outcome.
func (s *Service) fail(req domain.ForecastRequest, source domain.Source, status int, cause error) (domain.ForecastResponse, error) {
	if s.opts.StrictUpstream {
		return domain.ForecastResponse{}, &UpstreamError{Source: source, BackendStatus: status, Err: cause}
	}
	return mock(req, source, status), nil
}

func mock(req domain.ForecastRequest, source domain.Source, status int) domain.ForecastResponse {
	return domain.ForecastResponse{
		NormalizedForecast: domain.NormalizedMock(req.Lat, req.Lon, req.Datetime),
		Source:             source,
		BackendStatus:      status,
	}
}

func truncate(body []byte) string {
	if len(body) <= maxLoggedBody {
		return string(body)
	}
	return string(body[:maxLoggedBody]) + "..."
}

// CheckReadiness defers to the backend when it reports readiness.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if r, ok := s.backend.(interface{ CheckReadiness(context.Context) error }); ok {
		return r.CheckReadiness(ctx)
	}
	return nil
}
