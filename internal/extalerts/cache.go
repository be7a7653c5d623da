// Package extalerts serves the advisory alert feed from an upstream
// source, shielded by a short-lived cache. The upstream is advisory, not
// authoritative: fetch failures degrade to an empty feed instead of
// failing the request.
package extalerts

import (
	"context"
	"sync"
	"time"

	"github.com/ritee123/loginsight/internal/logging"
	"github.com/ritee123/loginsight/internal/metrics"
)

// Alert is one advisory alert from the upstream source.
type Alert struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	Source      string    `json:"source"`
	Timestamp   time.Time `json:"timestamp"`
}

// FetchFunc retrieves the current alert list from the upstream source.
type FetchFunc func(ctx context.Context) ([]Alert, error)

// DefaultTTL is how long a fetched alert list stays fresh.
const DefaultTTL = 30 * time.Second

// Cache is a single-slot TTL cache in front of a FetchFunc. An explicit
// struct with an injected clock: multiple engine instances never share
// state, and tests control time.
type Cache struct {
	fetch FetchFunc
	ttl   time.Duration
	now   func() time.Time

	mu   sync.Mutex
	slot *slot
}

type slot struct {
	data      []Alert
	fetchedAt time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock overrides the cache clock. Tests use this to pin time.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// NewCache creates a cache over the fetcher. ttl <= 0 means DefaultTTL.
func NewCache(fetch FetchFunc, ttl time.Duration, opts ...CacheOption) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		fetch: fetch,
		ttl:   ttl,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached alert list when fresh, otherwise fetches. On
// fetch failure the slot is left untouched, a warning is logged, and an
// empty list is returned.
//
// The fetch runs outside the lock, so concurrent misses may both fetch.
// That is fine: the fetch is idempotent, and the slot is replaced as a
// single assignment under the lock either way.
func (c *Cache) Get(ctx context.Context) []Alert {
	c.mu.Lock()
	if s := c.slot; s != nil && c.now().Sub(s.fetchedAt) < c.ttl {
		data := make([]Alert, len(s.data))
		copy(data, s.data)
		c.mu.Unlock()
		metrics.ExternalAlertCacheHits.Inc()
		return data
	}
	c.mu.Unlock()
	metrics.ExternalAlertCacheMisses.Inc()

	data, err := c.fetch(ctx)
	if err != nil {
		metrics.ExternalAlertFetchErrors.Inc()
		logging.L(ctx).Warn("external alert fetch failed", "error", err)
		return []Alert{}
	}

	c.mu.Lock()
	c.slot = &slot{data: data, fetchedAt: c.now()}
	c.mu.Unlock()

	return data
}
