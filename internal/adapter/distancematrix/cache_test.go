package distancematrix

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/forecast-lead-service/internal/domain"
	"github.com/couchcryptid/forecast-lead-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	calls  int
	result domain.GeocodingResult
	err    error
}

func (m *countingGeocoder) Geocode(_ context.Context, address string) (domain.GeocodingResult, error) {
	m.calls++
	r := m.result
	r.Address = address
	return r, m.err
}

func ptr(v float64) *float64 { return &v }

func found(formatted string) domain.GeocodingResult {
	return domain.GeocodingResult{Status: "OK", FormattedAddress: formatted, Lat: ptr(30), Lng: ptr(-97)}
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_CacheHit(t *testing.T) {
	inner := &countingGeocoder{result: found("Austin, TX, USA")}
	m := observability.NewMetricsForTesting()
	cached := NewCachedGeocoder(inner, 10, m)

	r1, err := cached.Geocode(context.Background(), "Austin, TX")
	require.NoError(t, err)
	assert.Equal(t, "Austin, TX, USA", r1.FormattedAddress)

	r2, err := cached.Geocode(context.Background(), "  austin,   tx ")
	require.NoError(t, err)
	assert.Equal(t, "Austin, TX, USA", r2.FormattedAddress)
	assert.Equal(t, "  austin,   tx ", r2.Address)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GeocodeCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GeocodeCache.WithLabelValues("miss")))
}

func TestCachedGeocoder_DifferentKeysMiss(t *testing.T) {
	inner := &countingGeocoder{result: found("Place")}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.Geocode(context.Background(), "Austin, TX")
	_, _ = cached.Geocode(context.Background(), "Dallas, TX")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_UnusableResultsNotCached(t *testing.T) {
	cases := []struct {
		name   string
		result domain.GeocodingResult
		err    error
	}{
		{"provider status", domain.GeocodingResult{Status: "OVER_QUERY_LIMIT"}, nil},
		{"no coordinates", domain.GeocodingResult{Status: "OK"}, nil},
		{"error", domain.GeocodingResult{}, errors.New("boom")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inner := &countingGeocoder{result: tc.result, err: tc.err}
			cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

			_, _ = cached.Geocode(context.Background(), "x")
			_, _ = cached.Geocode(context.Background(), "x")

			assert.Equal(t, 2, inner.calls)
			assert.Zero(t, cached.cache.size())
		})
	}
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", domain.GeocodingResult{FormattedAddress: "A"})
	c.put("b", domain.GeocodingResult{FormattedAddress: "B"})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", result.FormattedAddress)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodingResult{FormattedAddress: "A"})
	c.put("b", domain.GeocodingResult{FormattedAddress: "B"})
	c.put("c", domain.GeocodingResult{FormattedAddress: "C"}) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	result, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", result.FormattedAddress)

	result, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", result.FormattedAddress)
	assert.Equal(t, 2, c.size())
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodingResult{FormattedAddress: "A"})
	c.put("b", domain.GeocodingResult{FormattedAddress: "B"})

	c.get("a")

	// "b" is now least recently used.
	c.put("c", domain.GeocodingResult{FormattedAddress: "C"})

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodingResult{FormattedAddress: "A1"})
	c.put("a", domain.GeocodingResult{FormattedAddress: "A2"})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", result.FormattedAddress)
	assert.Equal(t, 1, c.size())
}
