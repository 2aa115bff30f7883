// Package upstream calls the probabilistic forecast backend.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/couchcryptid/forecast-lead-service/internal/domain"
	"github.com/couchcryptid/forecast-lead-service/internal/observability"
	"github.com/sony/gobreaker"
)

// maxBodyBytes caps how much of a backend response is read.
const maxBodyBytes = 4 << 20

// Circuit breaker tuning.
const (
	breakerName             = "forecast-upstream"
	breakerFailureThreshold = 5
	breakerInterval         = time.Minute
	breakerOpenTimeout      = 30 * time.Second
)

var (
	// ErrCircuitOpen is returned while the breaker rejects calls.
	ErrCircuitOpen = errors.New("forecast backend circuit breaker open")

	errServerError = errors.New("server error")

	endpointSuffix = regexp.MustCompile(`(?i)(collect|forecast|predict)/?$`)
)

// ResolveURL derives the forecast endpoint from a configured base URL. A base
// that already names an endpoint is used verbatim; otherwise one trailing
// slash is stripped and "/forecast" appended.
func ResolveURL(base string) (string, error) {
	base = strings.TrimSpace(base)
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse forecast base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("forecast base url %q: must be an absolute http(s) url", base)
	}
	if endpointSuffix.MatchString(base) {
		return base, nil
	}
	return strings.TrimSuffix(base, "/") + "/forecast", nil
}

// Client implements domain.ForecastBackend over HTTP. Transport failures and
// 5xx answers count against a circuit breaker.
type Client struct {
	url        string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a backend client for an already resolved endpoint URL.
func NewClient(endpoint string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	c := &Client{
		url:        endpoint,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    breakerInterval,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		// A caller hanging up says nothing about the backend's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			if to == gobreaker.StateOpen {
				metrics.CircuitOpen.Set(1)
			} else {
				metrics.CircuitOpen.Set(0)
			}
		},
	})
	return c
}

// Fetch posts {lat, lon, datetime} and returns the status and body. Any
// non-nil error means no reply was received.
func (c *Client) Fetch(ctx context.Context, req domain.ForecastRequest) (domain.BackendReply, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return domain.BackendReply{}, fmt.Errorf("encode forecast request: %w", err)
	}

	start := time.Now()
	var reply domain.BackendReply
	_, err = c.breaker.Execute(func() (interface{}, error) {
		r, execErr := c.post(ctx, payload)
		if execErr != nil {
			return nil, execErr
		}
		reply = r
		if r.Status >= http.StatusInternalServerError {
			return nil, errServerError
		}
		return nil, nil
	})
	c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		c.metrics.UpstreamRequests.WithLabelValues(outcomeLabel(reply)).Inc()
		return reply, nil
	case errors.Is(err, errServerError):
		c.metrics.UpstreamRequests.WithLabelValues("http_error").Inc()
		return reply, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		c.metrics.UpstreamRequests.WithLabelValues("circuit_open").Inc()
		return domain.BackendReply{}, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	default:
		c.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return domain.BackendReply{}, err
	}
}

func (c *Client) post(ctx context.Context, payload []byte) (domain.BackendReply, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return domain.BackendReply{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.BackendReply{}, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.BackendReply{}, fmt.Errorf("read forecast response: %w", err)
	}
	return domain.BackendReply{Status: resp.StatusCode, Body: body}, nil
}

// CheckReadiness fails while the circuit breaker is open.
func (c *Client) CheckReadiness(_ context.Context) error {
	if c.breaker.State() == gobreaker.StateOpen {
		return ErrCircuitOpen
	}
	return nil
}

func outcomeLabel(r domain.BackendReply) string {
	if r.Success() {
		return "success"
	}
	return "http_error"
}
