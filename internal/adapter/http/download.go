package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/couchcryptid/forecast-lead-service/internal/domain"
)

const downloadFilename = "forecast-data.csv"

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	body, err := readBody(w, r)
	if err != nil || !json.Valid(body) {
		logger.Warn("invalid download request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	out, err := domain.ExportCSV(body)
	if err != nil {
		logger.Error("export csv", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to process download")
		return
	}
	s.deps.Metrics.DownloadRequests.Inc()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+downloadFilename)
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
