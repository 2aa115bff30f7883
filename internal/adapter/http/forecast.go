package http

import (
	"errors"
	"net/http"

	"github.com/couchcryptid/forecast-lead-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/forecast-lead-service/internal/forecast"
)

// upstreamErrorBody is the strict-policy answer for a failing backend.
type upstreamErrorBody struct {
	Error         string        `json:"error"`
	Source        domain.Source `json:"source"`
	BackendStatus int           `json:"backendStatus,omitempty"`
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	body, err := readBody(w, r)
	if err != nil {
		logger.Warn("read forecast request", "error", err)
		writeError(w, http.StatusBadRequest, forecast.ErrInvalidJSON.Error())
		return
	}

	req, err := forecast.ParseRequest(body)
	switch {
	case errors.Is(err, forecast.ErrInvalidJSON):
		logger.Warn("invalid forecast request", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		logger.Warn("invalid forecast request", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp, err := s.deps.Forecast.Forecast(r.Context(), req)
	if err != nil {
		var upErr *forecast.UpstreamError
		if errors.As(err, &upErr) {
			sharedobs.WriteJSON(w, http.StatusBadGateway, upstreamErrorBody{
				Error:         "forecast backend unavailable",
				Source:        upErr.Source,
				BackendStatus: upErr.BackendStatus,
			})
			return
		}
		logger.Error("forecast failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, resp)
}
