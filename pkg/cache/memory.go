package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/devlens/pkg/observability"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Memory is an in-process [Cache] bounded by entry count.
//
// It is backed by a golang-lru cache but only uses Peek/Add/Remove, so a Get
// never promotes an entry: the first entry evicted on overflow is the one
// inserted (or last overwritten) longest ago.
type Memory[V any] struct {
	entries *lru.Cache[string, entry[V]]
	ttl     time.Duration
	keyType string
	now     func() time.Time
}

// MemoryOption configures a [Memory] cache.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	keyType string
	now     func() time.Time
}

// WithKeyType sets the label reported to observability hooks.
func WithKeyType(keyType string) MemoryOption {
	return func(c *memoryConfig) { c.keyType = keyType }
}

// WithClock replaces time.Now. Used by tests to step past a TTL.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *memoryConfig) { c.now = now }
}

// NewMemory creates a cache holding at most capacity entries, each living
// defaultTTL unless Set is given an explicit ttl.
func NewMemory[V any](capacity int, defaultTTL time.Duration, opts ...MemoryOption) (*Memory[V], error) {
	cfg := memoryConfig{keyType: "memory", now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	entries, err := lru.New[string, entry[V]](max(capacity, 1))
	if err != nil {
		return nil, err
	}
	return &Memory[V]{
		entries: entries,
		ttl:     defaultTTL,
		keyType: cfg.keyType,
		now:     cfg.now,
	}, nil
}

// Get returns the live value for key. An expired entry is removed and
// reported as a miss.
func (m *Memory[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	e, ok := m.entries.Peek(key)
	if !ok {
		observability.Cache().OnCacheMiss(ctx, m.keyType)
		return zero, false, nil
	}
	if m.now().After(e.expiresAt) {
		m.entries.Remove(key)
		observability.Cache().OnCacheMiss(ctx, m.keyType)
		return zero, false, nil
	}
	observability.Cache().OnCacheHit(ctx, m.keyType)
	return e.value, true, nil
}

// Set stores value with a fresh expiry.
func (m *Memory[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.ttl
	}
	// Remove first so an overwrite counts as a new insertion.
	m.entries.Remove(key)
	m.entries.Add(key, entry[V]{value: value, expiresAt: m.now().Add(ttl)})
	observability.Cache().OnCacheSet(ctx, m.keyType, m.entries.Len())
	return nil
}

// Delete removes key.
func (m *Memory[V]) Delete(ctx context.Context, key string) error {
	m.entries.Remove(key)
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory[V]) Len() int {
	return m.entries.Len()
}

// Close drops every entry.
func (m *Memory[V]) Close() error {
	m.entries.Purge()
	return nil
}

var _ Cache[[]byte] = (*Memory[[]byte])(nil)
