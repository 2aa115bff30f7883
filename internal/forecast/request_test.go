package forecast

import (
	"testing"

	"github.com/couchcryptid/forecast-lead-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	cases := []struct {
		name string
		body string
		want domain.ForecastRequest
	}{
		{
			name: "date and string hour",
			body: `{"lat": -23.55, "lon": -46.63, "date": "2025-12-15", "hour": "15"}`,
			want: domain.ForecastRequest{Lat: -23.55, Lon: -46.63, Datetime: "2025-12-15 15:00"},
		},
		{
			name: "numeric hour",
			body: `{"lat": 1, "lon": 2, "date": "2025-12-15", "hour": 9}`,
			want: domain.ForecastRequest{Lat: 1, Lon: 2, Datetime: "2025-12-15 9:00"},
		},
		{
			name: "datetime wins over date and hour",
			body: `{"lat": 1, "lon": 2, "datetime": "2025-12-15T15:00", "date": "2024-01-01", "hour": "1"}`,
			want: domain.ForecastRequest{Lat: 1, Lon: 2, Datetime: "2025-12-15T15:00"},
		},
		{
			name: "lng alias",
			body: `{"lat": 1, "lng": 2, "datetime": "x"}`,
			want: domain.ForecastRequest{Lat: 1, Lon: 2, Datetime: "x"},
		},
		{
			name: "null lon falls back to lng",
			body: `{"lat": 1, "lon": null, "lng": 3, "datetime": "x"}`,
			want: domain.ForecastRequest{Lat: 1, Lon: 3, Datetime: "x"},
		},
		{
			name: "numeric strings",
			body: `{"lat": " -23.55 ", "lon": "-46.63", "datetime": "x"}`,
			want: domain.ForecastRequest{Lat: -23.55, Lon: -46.63, Datetime: "x"},
		},
		{
			name: "empty datetime uses date and hour",
			body: `{"lat": 0, "lon": 0, "datetime": "", "date": "2025-01-01", "hour": "0"}`,
			want: domain.ForecastRequest{Lat: 0, Lon: 0, Datetime: "2025-01-01 0:00"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRequest([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRequest_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{"malformed", `{"lat":`, ErrInvalidJSON},
		{"not an object", `[1, 2]`, ErrInvalidJSON},
		{"null", `null`, ErrInvalidJSON},
		{"missing lat", `{"lon": 1, "datetime": "x"}`, ErrMissingCoordinates},
		{"latitude is not lat", `{"latitude": 1, "lon": 1, "datetime": "x"}`, ErrMissingCoordinates},
		{"missing lon", `{"lat": 1, "datetime": "x"}`, ErrMissingCoordinates},
		{"invalid lon does not fall back", `{"lat": 1, "lon": "east", "lng": 2, "datetime": "x"}`, ErrMissingCoordinates},
		{"blank string", `{"lat": " ", "lon": 1, "datetime": "x"}`, ErrMissingCoordinates},
		{"boolean", `{"lat": true, "lon": 1, "datetime": "x"}`, ErrMissingCoordinates},
		{"infinite", `{"lat": "Inf", "lon": 1, "datetime": "x"}`, ErrMissingCoordinates},
		{"nan", `{"lat": "NaN", "lon": 1, "datetime": "x"}`, ErrMissingCoordinates},
		{"no datetime", `{"lat": 1, "lon": 1}`, ErrMissingDatetime},
		{"date without hour", `{"lat": 1, "lon": 1, "date": "2025-12-15"}`, ErrMissingDatetime},
		{"hour without date", `{"lat": 1, "lon": 1, "hour": "15"}`, ErrMissingDatetime},
		{"non-string datetime", `{"lat": 1, "lon": 1, "datetime": 20251215}`, ErrMissingDatetime},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRequest([]byte(tc.body))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
