// Package llm calls an OpenAI-compatible chat completions API (Groq by
// default) to explain forecasts.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/forecast-lead-service/internal/observability"
)

// NoResponse is returned when the model answers without content.
const NoResponse = "No response from the model"

// APIError is a non-2xx answer from the completions API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat completions API error: status %d: %s", e.Status, e.Body)
}

// Client implements domain.Explainer.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a chat completions client. baseURL is the API root, e.g.
// https://api.groq.com/openai/v1.
func NewClient(apiKey, baseURL, model string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// Explain sends a system and a user message and returns the first choice's
// trimmed content, or NoResponse when it is empty.
func (c *Client) Explain(ctx context.Context, system, prompt string) (string, error) {
	start := time.Now()
	text, err := c.complete(ctx, system, prompt)
	c.metrics.LLMAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ExplainRequests.WithLabelValues("error").Inc()
		return "", err
	}
	c.metrics.ExplainRequests.WithLabelValues("success").Inc()
	return text, nil
}

func (c *Client) complete(ctx context.Context, system, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completions request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("chat completions API error", "status", resp.StatusCode, "body", string(body))
		return "", &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return NoResponse, nil
	}
	text := strings.TrimSpace(chat.Choices[0].Message.Content)
	if text == "" {
		return NoResponse, nil
	}
	return text, nil
}

// Chat completions wire types.

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}
