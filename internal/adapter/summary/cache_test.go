package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/couchcryptid/warehouse-capacity-map/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingSource struct {
	calls   int
	records []domain.RegionSummary
	err     error
}

func (m *countingSource) FetchSummaries(_ context.Context, _ domain.Scope) ([]domain.RegionSummary, error) {
	m.calls++
	return m.records, m.err
}

var (
	countryScope = domain.NewScope(domain.IndiaCode, "")
	mhScope      = domain.NewScope(domain.IndiaCode, "MH")
	someRecords  = []domain.RegionSummary{{Location: "MH", Warehouses: []domain.WarehouseRecord{{Type: "Dry", Capacity: 1, Count: 1}}}}
)

// --- CachedSource tests ---

func TestCachedSource_CacheHit(t *testing.T) {
	inner := &countingSource{records: someRecords}
	cached := NewCachedSource(inner, 10, time.Minute, clockwork.NewFakeClock(), testMetrics())

	r1, err := cached.FetchSummaries(context.Background(), countryScope)
	require.NoError(t, err)
	r2, err := cached.FetchSummaries(context.Background(), countryScope)
	require.NoError(t, err)

	assert.Equal(t, someRecords, r1)
	assert.Equal(t, someRecords, r2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.InDelta(t, 1.0, testutil.ToFloat64(cached.metrics.SummaryCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(cached.metrics.SummaryCache.WithLabelValues("miss")), 0)
}

func TestCachedSource_ScopesCachedSeparately(t *testing.T) {
	inner := &countingSource{records: someRecords}
	cached := NewCachedSource(inner, 10, time.Minute, clockwork.NewFakeClock(), testMetrics())

	_, _ = cached.FetchSummaries(context.Background(), countryScope)
	_, _ = cached.FetchSummaries(context.Background(), mhScope)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedSource_Expiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	inner := &countingSource{records: someRecords}
	cached := NewCachedSource(inner, 10, time.Minute, clock, testMetrics())

	_, _ = cached.FetchSummaries(context.Background(), countryScope)
	clock.Advance(59 * time.Second)
	_, _ = cached.FetchSummaries(context.Background(), countryScope)
	assert.Equal(t, 1, inner.calls)

	clock.Advance(time.Second)
	_, _ = cached.FetchSummaries(context.Background(), countryScope)
	assert.Equal(t, 2, inner.calls, "expired entry should be refetched")
}

func TestCachedSource_EmptyResultNotCached(t *testing.T) {
	inner := &countingSource{}
	cached := NewCachedSource(inner, 10, time.Minute, clockwork.NewFakeClock(), testMetrics())

	_, _ = cached.FetchSummaries(context.Background(), countryScope)
	_, _ = cached.FetchSummaries(context.Background(), countryScope)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedSource_ErrorNotCached(t *testing.T) {
	inner := &countingSource{err: errors.New("connection refused")}
	cached := NewCachedSource(inner, 10, time.Minute, clockwork.NewFakeClock(), testMetrics())

	_, err := cached.FetchSummaries(context.Background(), countryScope)
	require.Error(t, err)

	inner.err = nil
	inner.records = someRecords
	records, err := cached.FetchSummaries(context.Background(), countryScope)
	require.NoError(t, err)
	assert.Equal(t, someRecords, records)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedSource_Invalidate(t *testing.T) {
	inner := &countingSource{records: someRecords}
	cached := NewCachedSource(inner, 10, time.Minute, clockwork.NewFakeClock(), testMetrics())

	_, _ = cached.FetchSummaries(context.Background(), countryScope)
	cached.Invalidate(countryScope)
	_, _ = cached.FetchSummaries(context.Background(), countryScope)

	assert.Equal(t, 2, inner.calls)
}

// --- LRU cache unit tests ---

func summaries(location string) []domain.RegionSummary {
	return []domain.RegionSummary{{Location: location}}
}

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3, time.Minute, clockwork.NewFakeClock())

	c.put("a", summaries("A"))
	c.put("b", summaries("B"))

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", result[0].Location)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2, time.Minute, clockwork.NewFakeClock())

	c.put("a", summaries("A"))
	c.put("b", summaries("B"))
	c.put("c", summaries("C")) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	result, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", result[0].Location)
	assert.Equal(t, 2, c.size())
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2, time.Minute, clockwork.NewFakeClock())

	c.put("a", summaries("A"))
	c.put("b", summaries("B"))
	c.get("a")
	c.put("c", summaries("C"))

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExistingRefreshesExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := newLRUCache(2, time.Minute, clock)

	c.put("a", summaries("A1"))
	clock.Advance(50 * time.Second)
	c.put("a", summaries("A2"))
	clock.Advance(50 * time.Second)

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", result[0].Location)
	assert.Equal(t, 1, c.size())
}

func TestLRUCache_ExpiredEntryRemoved(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := newLRUCache(2, time.Second, clock)

	c.put("a", summaries("A"))
	clock.Advance(2 * time.Second)

	_, ok := c.get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.size())
}
