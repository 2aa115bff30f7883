package llm

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/forecast-lead-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) (*Client, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	return NewClient("gsk-test", baseURL+"/", "llama-test", 5*time.Second, m, slog.New(slog.NewTextHandler(io.Discard, nil))), m
}

func TestClient_Explain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama-test", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, message{Role: "system", Content: "sys"}, req.Messages[0])
		assert.Equal(t, message{Role: "user", Content: "explain"}, req.Messages[1])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "  <b>Sunny</b> afternoon.\n"}}]}`))
	}))
	defer srv.Close()

	c, m := testClient(srv.URL)
	text, err := c.Explain(context.Background(), "sys", "explain")
	require.NoError(t, err)
	assert.Equal(t, "<b>Sunny</b> afternoon.", text)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExplainRequests.WithLabelValues("success")))
}

func TestClient_Explain_EmptyAnswer(t *testing.T) {
	for _, body := range []string{`{"choices": []}`, `{"choices": [{"message": {"content": "   "}}]}`, `{}`} {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			c, _ := testClient(srv.URL)
			text, err := c.Explain(context.Background(), "sys", "explain")
			require.NoError(t, err)
			assert.Equal(t, NoResponse, text)
		})
	}
}

func TestClient_Explain_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit reached"}}`))
	}))
	defer srv.Close()

	c, m := testClient(srv.URL)
	_, err := c.Explain(context.Background(), "sys", "explain")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Contains(t, apiErr.Body, "rate limit reached")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExplainRequests.WithLabelValues("error")))
}

func TestClient_Explain_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c, _ := testClient(srv.URL)
	_, err := c.Explain(context.Background(), "sys", "explain")
	require.Error(t, err)

	var apiErr *APIError
	assert.NotErrorAs(t, err, &apiErr)
}
