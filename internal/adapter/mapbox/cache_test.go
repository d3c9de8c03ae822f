package mapbox

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
	"github.com/couchcryptid/wildfire-guardian/internal/observability"
)

type countingGeocoder struct {
	calls  int
	result domain.GeocodingResult
	err    error
}

func (m *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

func TestCachedGeocoder_CacheHit(t *testing.T) {
	inner := &countingGeocoder{result: domain.GeocodingResult{FormattedAddress: "Manu, Madre de Dios"}}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedGeocoder(inner, 10, metrics)

	_, err := cached.ReverseGeocode(context.Background(), -12.2500, -71.5000)
	require.NoError(t, err)

	// Same ~1 km cell.
	r, err := cached.ReverseGeocode(context.Background(), -12.2520, -71.4990)
	require.NoError(t, err)
	assert.Equal(t, "Manu, Madre de Dios", r.FormattedAddress)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GeocodeEnabled))
}

func TestCachedGeocoder_DifferentCellsMiss(t *testing.T) {
	inner := &countingGeocoder{result: domain.GeocodingResult{FormattedAddress: "Somewhere"}}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.ReverseGeocode(context.Background(), -5.0, -75.0)
	_, _ = cached.ReverseGeocode(context.Background(), -5.1, -75.0)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_EmptyAndErrorsNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.ReverseGeocode(context.Background(), -5.0, -75.0)
	_, _ = cached.ReverseGeocode(context.Background(), -5.0, -75.0)
	assert.Equal(t, 2, inner.calls)

	inner.err = errors.New("timeout")
	_, err := cached.ReverseGeocode(context.Background(), -5.0, -75.0)
	assert.Error(t, err)
	assert.Equal(t, 0, cached.cache.len())
}

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache[string, int](3)

	c.put("a", 1)
	c.put("b", 2)

	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache[string, int](2)

	c.put("a", 1)
	c.put("b", 2)
	c.put("c", 3) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	v, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, c.len())
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache[string, int](2)

	c.put("a", 1)
	c.put("b", 2)
	c.get("a")
	c.put("c", 3)

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache[string, int](2)

	c.put("a", 1)
	c.put("a", 2)

	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.len())
}

func TestLRUCache_NonPositiveSize(t *testing.T) {
	c := newLRUCache[string, int](0)
	c.put("a", 1)
	c.put("b", 2)
	assert.Equal(t, 1, c.len())
}

func TestCellOf(t *testing.T) {
	assert.Equal(t, cellOf(-12.2500, -71.5000), cellOf(-12.2549, -71.4951))
	assert.NotEqual(t, cellOf(-12.25, -71.5), cellOf(-12.27, -71.5))
}
