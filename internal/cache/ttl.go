// Package cache is a small process-local TTL cache. Expiry is checked lazily
// on read; there is no background sweeper. Staleness across concurrent
// readers is acceptable for the suggestion workload it backs.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

type TTL[V any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	store map[string]entry[V]
	now   func() time.Time // swappable in tests
}

func NewTTL[V any](ttl time.Duration) *TTL[V] {
	return &TTL[V]{
		ttl:   ttl,
		store: make(map[string]entry[V]),
		now:   time.Now,
	}
}

func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		c.mu.Lock()
		// re-check under the write lock; another writer may have refreshed it
		if cur, ok := c.store[key]; ok && c.now().Sub(cur.storedAt) > c.ttl {
			delete(c.store, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	c.store[key] = entry[V]{value: value, storedAt: c.now()}
	c.mu.Unlock()
}

func (c *TTL[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}
