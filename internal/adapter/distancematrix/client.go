package distancematrix

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/forecast-lead-service/internal/domain"
	"github.com/couchcryptid/forecast-lead-service/internal/observability"
)

// Client implements domain.Geocoder using the Distance Matrix geocoding API.
type Client struct {
	key        string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Distance Matrix geocoding client.
func NewClient(key, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		key: key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Geocode resolves a single-line address. A provider status other than OK or
// a missing location is reported in the result, not as an error.
func (c *Client) Geocode(ctx context.Context, address string) (domain.GeocodingResult, error) {
	params := url.Values{
		"address": {address},
		"key":     {c.key},
	}

	start := time.Now()
	result, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode(), address)
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
	case !result.OK():
		c.metrics.GeocodeRequests.WithLabelValues("not_ok").Inc()
	case !result.HasCoordinates():
		c.metrics.GeocodeRequests.WithLabelValues("no_coordinates").Inc()
	default:
		c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	}
	return result, err
}

func (c *Client) doRequest(ctx context.Context, fullURL, address string) (domain.GeocodingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.GeocodingResult{}, fmt.Errorf("distancematrix API error: status %d: %s", resp.StatusCode, body)
	}

	var dmResp response
	if err := json.NewDecoder(resp.Body).Decode(&dmResp); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}

	candidates := dmResp.candidates()
	c.logger.Debug("geocode response", "status", dmResp.Status, "results", len(candidates))

	result := domain.GeocodingResult{
		Address:      address,
		Status:       dmResp.Status,
		ResultsCount: len(candidates),
	}
	if len(candidates) == 0 {
		return result, nil
	}

	first := candidates[0]
	result.FormattedAddress = first.FormattedAddress
	if loc := first.Geometry.Location; loc != nil {
		result.Lat = loc.Lat
		result.Lng = loc.Lng
	}
	return result, nil
}

// Distance Matrix API response types. Depending on the API version the
// candidates live under "results", "result", or a nested "data" object.

type response struct {
	Status  string      `json:"status"`
	Results []candidate `json:"results"`
	Result  []candidate `json:"result"`
	Data    *struct {
		Results []candidate `json:"results"`
		Result  []candidate `json:"result"`
	} `json:"data"`
}

// candidates returns the first candidate list present, in priority order.
func (r response) candidates() []candidate {
	switch {
	case r.Results != nil:
		return r.Results
	case r.Result != nil:
		return r.Result
	case r.Data != nil && r.Data.Results != nil:
		return r.Data.Results
	case r.Data != nil:
		return r.Data.Result
	default:
		return nil
	}
}

type candidate struct {
	FormattedAddress string `json:"formatted_address"`
	Geometry         struct {
		Location *struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}
