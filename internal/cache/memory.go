// Package cache provides a small TTL cache kept in process memory.
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

// InMemoryCache stores values for a fixed TTL. Expired entries are never
// returned and are removed by the cleanup loop.
type InMemoryCache struct {
	mu          sync.RWMutex
	items       map[string]item
	ttl         time.Duration
	cleanupFreq time.Duration
	now         func() time.Time
	stop        chan struct{}
	stopOnce    sync.Once
}

func NewInMemoryCache(ttl, cleanupFreq time.Duration) *InMemoryCache {
	return &InMemoryCache{
		items:       make(map[string]item),
		ttl:         ttl,
		cleanupFreq: cleanupFreq,
		now:         time.Now,
		stop:        make(chan struct{}),
	}
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value interface{}) {
	c.SetWithTTL(ctx, key, value, c.ttl)
}

func (c *InMemoryCache) SetWithTTL(_ context.Context, key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item{value: value, expiresAt: c.now().Add(ttl)}
}

func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key]
	if !ok || !c.now().Before(it.expiresAt) {
		return nil, false
	}
	return it.value, true
}

func (c *InMemoryCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len returns the number of stored entries, expired or not.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *InMemoryCache) deleteExpired() {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, it := range c.items {
		if !now.Before(it.expiresAt) {
			delete(c.items, k)
		}
	}
}

// StartCleanup evicts expired entries every cleanupFreq until ctx is done
// or StopCleanup is called.
func (c *InMemoryCache) StartCleanup(ctx context.Context) {
	if c.cleanupFreq <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(c.cleanupFreq)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.deleteExpired()
			case <-ctx.Done():
				return
			case <-c.stop:
				return
			}
		}
	}()
}

func (c *InMemoryCache) StopCleanup() {
	c.stopOnce.Do(func() { close(c.stop) })
}
