package cache

import (
	"context"
	"sync"
)

// MemoryCache is a batch-scoped distance cache with no eviction. Create one
// per batch and drop it when the batch completes.
type MemoryCache struct {
	mu sync.RWMutex
	m  map[string]float64
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[string]float64)}
}

func (c *MemoryCache) Get(ctx context.Context, a, b string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	km, ok := c.m[key(a, b)]
	return km, ok
}

func (c *MemoryCache) Set(ctx context.Context, a, b string, km float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key(a, b)] = km
}
