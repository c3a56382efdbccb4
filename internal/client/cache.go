package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache holds raw API responses keyed by resource name ("tasks",
// "dashboard/upcoming-payments?days=14"). Concurrent misses for the same
// key share a single fetch.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	// gens counts invalidations per key so that a fetch started before an
	// invalidation does not repopulate the cache with stale data.
	gens  map[string]uint64
	group singleflight.Group

	now func() time.Time
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewCache creates a cache whose entries expire after ttl. A ttl of zero
// keeps entries until they are invalidated.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		gens:    make(map[string]uint64),
		now:     time.Now,
	}
}

// Get returns the cached value for key, calling fetch on a miss.
func (c *Cache) Get(ctx context.Context, key string, fetch func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if data, ok := c.lookup(key); ok {
		return data, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		gen := c.generation(key)
		data, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, gen, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate drops the given keys. A key also matches every entry that
// extends it with a query string, so "dashboard/upcoming-payments" clears
// all windows.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		for k := range c.entries {
			if matches(k, key) {
				delete(c.entries, k)
			}
		}
		for k := range c.gens {
			if matches(k, key) {
				c.gens[k]++
				c.group.Forget(k)
			}
		}
		c.gens[key]++
		c.group.Forget(key)
	}
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) lookup(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.data, true
}

func (c *Cache) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.gens[key]; !ok {
		c.gens[key] = 0
	}
	return c.gens[key]
}

func (c *Cache) store(key string, gen uint64, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[key] != gen {
		return
	}
	c.entries[key] = cacheEntry{data: data, expiresAt: c.now().Add(c.ttl)}
}

func matches(key, prefix string) bool {
	return key == prefix || strings.HasPrefix(key, prefix+"?")
}
