// Package cache provides the bounded, TTL-based stores shared across
// concurrent analyses: the upstream response cache and the analysis result
// cache, plus a [Coalescer] that deduplicates concurrent runs per key.
//
// # Eviction
//
// [Memory] is capacity-bounded and evicts the oldest-inserted entry on
// overflow. Reads never reorder entries, so the policy is insertion order
// rather than recency. Expired entries are dropped lazily on access.
//
// # Keys
//
// Keys are produced by a [Keyer] so that callers sharing a store (for
// example authenticated and anonymous upstream clients) can be isolated
// with [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache is a typed key/value store with per-entry TTL.
//
// Implementations must be safe for concurrent use.
type Cache[V any] interface {
	// Get returns the value for key. The bool is false on a miss or when the
	// entry has expired.
	Get(ctx context.Context, key string) (V, bool, error)

	// Set stores value under key. A ttl of zero selects the store's default.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}
