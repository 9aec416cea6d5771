package cache

import (
	"context"
	"time"
)

// NullCache is a no-op cache that never stores anything.
// Used when caching is disabled with --no-cache.
type NullCache[V any] struct{}

// NewNullCache creates a null cache.
func NewNullCache[V any]() Cache[V] {
	return &NullCache[V]{}
}

// Get always returns a cache miss.
func (c *NullCache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	return zero, false, nil
}

// Set does nothing.
func (c *NullCache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (c *NullCache[V]) Delete(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (c *NullCache[V]) Close() error {
	return nil
}

var _ Cache[[]byte] = (*NullCache[[]byte])(nil)
