package ratelimit

import (
	"context"
	"sync"
	"time"
)

// sweepThreshold is the bucket count above which Incr drops expired buckets.
const sweepThreshold = 4096

type bucket struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore is an in-process [Store]. Expired buckets are dropped lazily.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

// NewMemoryStore creates an empty store. A nil now uses time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{buckets: make(map[string]*bucket), now: now}
}

// Incr increments key. It never returns an error.
func (s *MemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.buckets) > sweepThreshold {
		for k, b := range s.buckets {
			if !now.Before(b.expiresAt) {
				delete(s.buckets, k)
			}
		}
	}

	b, ok := s.buckets[key]
	if !ok || !now.Before(b.expiresAt) {
		b = &bucket{expiresAt: now.Add(ttl)}
		s.buckets[key] = b
	}
	b.count++
	return b.count, nil
}

// Len reports the number of buckets held.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

var _ Store = (*MemoryStore)(nil)
