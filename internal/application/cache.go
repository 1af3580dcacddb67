package application

import (
	"context"
	"sync"
)

// Cache is a key/value store for fetched provider data.
type Cache[V any] interface {
	// Get returns ok=false on a miss.
	Get(ctx context.Context, key string) (v V, ok bool, err error)
	Set(ctx context.Context, key string, v V) error
	Delete(ctx context.Context, key string) error
}

// MemoryCache keeps entries for the lifetime of the process.
type MemoryCache[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

var _ Cache[int] = (*MemoryCache[int])(nil)

func NewMemoryCache[V any]() *MemoryCache[V] {
	return &MemoryCache[V]{items: map[string]V{}}
}

func (c *MemoryCache[V]) Get(_ context.Context, key string) (V, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	return v, ok, nil
}

func (c *MemoryCache[V]) Set(_ context.Context, key string, v V) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = v
	return nil
}

func (c *MemoryCache[V]) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// Len reports the number of cached entries.
func (c *MemoryCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
