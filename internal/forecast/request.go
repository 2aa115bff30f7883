package forecast

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/forecast-lead-service/internal/domain"
)

// Request validation errors. The HTTP layer maps ErrInvalidJSON to 400 and
// the other two to 422.
var (
	ErrInvalidJSON        = errors.New("invalid JSON body")
	ErrMissingCoordinates = errors.New("lat and lon/lng are required")
	ErrMissingDatetime    = errors.New("datetime (or date + hour) is required")
)

// ParseRequest reduces a client body to the backend request. Latitude is read
// only from "lat"; longitude from "lon", or "lng" when "lon" is absent or
// null. Coordinates may be numbers or numeric strings. The datetime is
// "datetime" verbatim, else "<date> <hour>:00".
func ParseRequest(body []byte) (domain.ForecastRequest, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return domain.ForecastRequest{}, ErrInvalidJSON
	}

	lat, latOK := pickNumber(fields["lat"])
	lonRaw := fields["lon"]
	if isNull(lonRaw) {
		lonRaw = fields["lng"]
	}
	lon, lonOK := pickNumber(lonRaw)
	if !latOK || !lonOK {
		return domain.ForecastRequest{}, ErrMissingCoordinates
	}

	datetime, ok := buildDatetime(fields)
	if !ok {
		return domain.ForecastRequest{}, ErrMissingDatetime
	}

	return domain.ForecastRequest{Lat: lat, Lon: lon, Datetime: datetime}, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// pickNumber accepts a finite JSON number or a string holding one.
func pickNumber(raw json.RawMessage) (float64, bool) {
	if isNull(raw) {
		return 0, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func buildDatetime(fields map[string]json.RawMessage) (string, bool) {
	if s, ok := pickString(fields["datetime"]); ok {
		return s, true
	}
	date, ok := pickString(fields["date"])
	if !ok {
		return "", false
	}
	hour, ok := pickHour(fields["hour"])
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s %s:00", date, hour), true
}

func pickString(raw json.RawMessage) (string, bool) {
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil || s == "" {
		return "", false
	}
	return s, true
}

// pickHour accepts "15" or 15.
func pickHour(raw json.RawMessage) (string, bool) {
	if s, ok := pickString(raw); ok {
		return s, true
	}
	var n float64
	if isNull(raw) || json.Unmarshal(raw, &n) != nil {
		return "", false
	}
	return strconv.FormatFloat(n, 'f', -1, 64), true
}
