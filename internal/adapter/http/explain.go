package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/couchcryptid/forecast-lead-service/internal/adapter/llm"
	"github.com/couchcryptid/forecast-lead-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

type explainResponse struct {
	Explanation string `json:"explanation"`
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	var req domain.ExplainRequest
	if err := json.Unmarshal(body, &req); err != nil {
		logger.Warn("invalid explain request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		logger.Warn("invalid explain request", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if s.deps.Explainer == nil {
		logger.Error("explanation requested but GROQ_API_KEY is not set")
		writeError(w, http.StatusServiceUnavailable, "explanations are not configured")
		return
	}

	text, err := s.deps.Explainer.Explain(r.Context(), domain.SystemPrompt, domain.BuildPrompt(req))
	if err != nil {
		logger.Error("explain failed", "error", err)
		var apiErr *llm.APIError
		switch {
		case errors.As(err, &apiErr):
			status := apiErr.Status
			if status < http.StatusBadRequest {
				status = http.StatusBadGateway
			}
			writeError(w, status, "chat completions API error: "+apiErr.Body)
		case errors.Is(err, llm.ErrRateLimited):
			writeError(w, http.StatusTooManyRequests, "too many explanation requests, try again shortly")
		default:
			writeError(w, http.StatusBadGateway, "explanation service unavailable")
		}
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, explainResponse{Explanation: text})
}
