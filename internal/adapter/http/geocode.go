package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/couchcryptid/forecast-lead-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

type geocodeResponse struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

type geocodeFailure struct {
	Error        string `json:"error"`
	Address      string `json:"address"`
	APIStatus    string `json:"apiStatus,omitempty"`
	ResultsCount *int   `json:"resultsCount,omitempty"`
}

func (s *Server) handleGeocodePost(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		s.requestLogger(r).Warn("invalid geocode request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		if str, ok := v.(string); ok {
			fields[k] = str
		}
	}
	s.geocode(w, r, domain.NormalizeGeocodeInput(fields))
}

func (s *Server) handleGeocodeGet(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	fields := make(map[string]string, len(query))
	for k := range query {
		fields[k] = query.Get(k)
	}
	s.geocode(w, r, domain.NormalizeGeocodeInput(fields))
}

func (s *Server) geocode(w http.ResponseWriter, r *http.Request, in domain.GeocodeInput) {
	logger := s.requestLogger(r)

	if err := in.Validate(); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrInsufficientAddress) {
			status = http.StatusUnprocessableEntity
		}
		logger.Warn("invalid geocode request", "error", err)
		writeError(w, status, err.Error())
		return
	}
	if s.deps.Geocoder == nil {
		logger.Error("geocoding requested but DISTANCE_MATRIX_KEY is not set")
		writeError(w, http.StatusServiceUnavailable, "geocoding is not configured")
		return
	}

	address := in.Address()
	result, err := s.deps.Geocoder.Geocode(r.Context(), address)
	if err != nil {
		logger.Error("geocode failed", "address", address, "error", err)
		writeError(w, http.StatusBadGateway, "geocoding provider unavailable")
		return
	}

	if !result.OK() {
		logger.Warn("geocode rejected by provider", "address", address, "status", result.Status)
		sharedobs.WriteJSON(w, http.StatusFailedDependency, geocodeFailure{
			Error:     "geocode failed",
			Address:   address,
			APIStatus: result.Status,
		})
		return
	}
	if !result.HasCoordinates() {
		logger.Warn("geocode returned no coordinates", "address", address, "results", result.ResultsCount)
		count := result.ResultsCount
		sharedobs.WriteJSON(w, http.StatusNotFound, geocodeFailure{
			Error:        "latitude/longitude not found",
			Address:      address,
			APIStatus:    result.Status,
			ResultsCount: &count,
		})
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, geocodeResponse{
		Lat:     *result.Lat,
		Lng:     *result.Lng,
		Address: result.DisplayAddress(),
	})
}
