package domain

import "context"

// ForecastRequest is the reduced client request forwarded upstream.
type ForecastRequest struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Datetime string  `json:"datetime"`
}

// BackendReply is a raw answer from the forecast backend. Status is the HTTP
// status code and Body the unparsed response body.
type BackendReply struct {
	Status int
	Body   []byte
}

// Success reports whether the backend answered with a 2xx status.
func (r BackendReply) Success() bool {
	return r.Status >= 200 && r.Status < 300
}

// ForecastBackend issues one forecast call. An error means no usable reply
// was received (transport failure, timeout, open circuit).
type ForecastBackend interface {
	Fetch(ctx context.Context, req ForecastRequest) (BackendReply, error)
}
