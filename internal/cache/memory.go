// internal/cache/memory.go
package cache

import (
	"context"
	"sync"
	"time"
)

type item struct {
	value     interface{}
	expiresAt time.Time
}

// InMemoryCache is a TTL cache with a background cleanup routine.
type InMemoryCache struct {
	mu          sync.RWMutex
	items       map[string]item
	ttl         time.Duration
	cleanupFreq time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

func NewInMemoryCache(ttl, cleanupFreq time.Duration) *InMemoryCache {
	return &InMemoryCache{
		items:       make(map[string]item),
		ttl:         ttl,
		cleanupFreq: cleanupFreq,
		stop:        make(chan struct{}),
	}
}

// Set stores value under key with the cache's TTL.
func (c *InMemoryCache) Set(ctx context.Context, key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Get returns the value for key if present and unexpired.
func (c *InMemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found || time.Now().After(it.expiresAt) {
		return nil, false
	}
	return it.value, true
}

// Delete removes key from the cache.
func (c *InMemoryCache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// StartCleanup launches the periodic expiry sweep.
func (c *InMemoryCache) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.cleanupFreq)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.sweep()
			case <-c.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// StopCleanup stops the cleanup routine.
func (c *InMemoryCache) StopCleanup() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *InMemoryCache) sweep() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, it := range c.items {
		if now.After(it.expiresAt) {
			delete(c.items, key)
		}
	}
}
