package summary

import (
	"context"
	"sync"
	"time"

	"github.com/couchcryptid/warehouse-capacity-map/internal/domain"
	"github.com/couchcryptid/warehouse-capacity-map/internal/observability"
	"github.com/jonboulle/clockwork"
)

// CachedSource wraps a SummarySource with an in-memory LRU cache whose
// entries expire after a fixed TTL.
type CachedSource struct {
	inner   domain.SummarySource
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around a summary source.
func NewCachedSource(inner domain.SummarySource, maxEntries int, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   newLRUCache(maxEntries, ttl, clock),
		metrics: metrics,
	}
}

func (c *CachedSource) FetchSummaries(ctx context.Context, scope domain.Scope) ([]domain.RegionSummary, error) {
	key := scope.String()
	if records, ok := c.cache.get(key); ok {
		c.metrics.SummaryCache.WithLabelValues("hit").Inc()
		return records, nil
	}
	c.metrics.SummaryCache.WithLabelValues("miss").Inc()

	records, err := c.inner.FetchSummaries(ctx, scope)
	if err != nil {
		return nil, err
	}
	// Empty responses are not cached so a scope whose data is still being
	// loaded upstream shows up on the next request.
	if len(records) > 0 {
		c.cache.put(key, records)
	}
	return records, nil
}

// Invalidate drops the cached summaries for a scope.
func (c *CachedSource) Invalidate(scope domain.Scope) {
	c.cache.delete(scope.String())
}

// lruCache is a thread-safe LRU cache of summary batches with per-entry expiry.
type lruCache struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     []domain.RegionSummary
	expiresAt time.Time
	prev      *entry
	next      *entry
}

func newLRUCache(maxEntries int, ttl time.Duration, clock clockwork.Clock) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) ([]domain.RegionSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.clock.Now().Before(e.expiresAt) {
		c.removeEntry(e)
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value []domain.RegionSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock.Now().Add(c.ttl)
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.removeEntry(c.tail)
	}
}

func (c *lruCache) delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.removeEntry(e)
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) removeEntry(e *entry) {
	if e == nil {
		return
	}
	delete(c.entries, e.key)
	c.unlink(e)
}
