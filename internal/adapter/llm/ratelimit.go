package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/forecast-lead-service/internal/domain"
	"github.com/couchcryptid/forecast-lead-service/internal/observability"
	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when no token became available before the
// request context ended.
var ErrRateLimited = errors.New("explain rate limit exceeded")

// maxQueueWait bounds how long a request waits for a token.
const maxQueueWait = 5 * time.Second

// RateLimitedExplainer wraps an Explainer with a token bucket so a burst of
// clicks cannot exhaust the provider quota.
type RateLimitedExplainer struct {
	inner   domain.Explainer
	limiter *rate.Limiter
	maxWait time.Duration
	metrics *observability.Metrics
}

// NewRateLimitedExplainer allows rps requests per second (fractional values
// allowed) with the given burst.
func NewRateLimitedExplainer(inner domain.Explainer, rps float64, burst int, metrics *observability.Metrics) *RateLimitedExplainer {
	return &RateLimitedExplainer{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		maxWait: maxQueueWait,
		metrics: metrics,
	}
}

// Explain waits a bounded time for a token before forwarding.
func (r *RateLimitedExplainer) Explain(ctx context.Context, system, prompt string) (string, error) {
	waitCtx, cancel := context.WithTimeout(ctx, r.maxWait)
	defer cancel()
	if err := r.limiter.Wait(waitCtx); err != nil {
		r.metrics.ExplainRequests.WithLabelValues("rate_limited").Inc()
		return "", fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return r.inner.Explain(ctx, system, prompt)
}

var (
	_ domain.Explainer = (*Client)(nil)
	_ domain.Explainer = (*RateLimitedExplainer)(nil)
)
