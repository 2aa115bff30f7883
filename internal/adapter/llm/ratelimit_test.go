package llm

import (
	"context"
	"testing"
	"time"

	"github.com/couchcryptid/forecast-lead-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingExplainer struct {
	calls int
}

func (c *countingExplainer) Explain(context.Context, string, string) (string, error) {
	c.calls++
	return "ok", nil
}

func TestRateLimitedExplainer_AllowsBurst(t *testing.T) {
	inner := &countingExplainer{}
	r := NewRateLimitedExplainer(inner, 0.001, 2, observability.NewMetricsForTesting())

	for range 2 {
		text, err := r.Explain(context.Background(), "sys", "p")
		require.NoError(t, err)
		assert.Equal(t, "ok", text)
	}
	assert.Equal(t, 2, inner.calls)
}

func TestRateLimitedExplainer_RejectsWhenQueueWaitTooLong(t *testing.T) {
	inner := &countingExplainer{}
	m := observability.NewMetricsForTesting()
	r := NewRateLimitedExplainer(inner, 0.001, 1, m)
	r.maxWait = 50 * time.Millisecond

	_, err := r.Explain(context.Background(), "sys", "p")
	require.NoError(t, err)

	_, err = r.Explain(context.Background(), "sys", "p")
	require.ErrorIs(t, err, ErrRateLimited)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExplainRequests.WithLabelValues("rate_limited")))
}
