// Package ratelimit implements the fixed-window admission check that guards
// the analysis endpoint.
//
// Each source (usually the client IP) gets a counter per window. The window
// id is floor(now/window) and the counter key is "rl:<source>:<id>", so a new
// window always starts from 1. Counters live in a [Store]: the preferred
// external store is Redis ([RedisStore]); the in-process [MemoryStore] is the
// fallback and is also used for any call on which the external store fails.
// The limiter itself never returns an error.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/devlens/pkg/observability"
)

// Default limits.
const (
	DefaultWindow      = 60 * time.Second
	DefaultMaxRequests = 30
)

// Decision sources.
const (
	SourceExternal = "external"
	SourceLocal    = "local"
)

// Store is a counter backend.
type Store interface {
	// Incr atomically increments key and returns the new count. The key must
	// expire no earlier than ttl after the first increment.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed bool      `json:"allowed"`
	Count   int       `json:"count"`
	Max     int       `json:"maxRequests"`
	ResetAt time.Time `json:"resetAt"`
	Source  string    `json:"source"`
}

// Remaining is the number of further requests allowed in this window.
func (d Decision) Remaining() int {
	return max(d.Max-d.Count, 0)
}

// RetryAfter is the whole number of seconds until the window resets, at
// least 1.
func (d Decision) RetryAfter(now time.Time) int {
	secs := int((d.ResetAt.Sub(now) + time.Second - 1) / time.Second)
	return max(secs, 1)
}

// Config configures a [Limiter].
type Config struct {
	Window      time.Duration
	MaxRequests int

	// External is the preferred store. Nil means local counters only.
	External Store

	// Now replaces time.Now.
	Now func() time.Time
}

// Limiter decides whether a source may proceed.
type Limiter struct {
	window   time.Duration
	max      int
	external Store
	local    *MemoryStore
	now      func() time.Time
}

// New creates a limiter. Non-positive limits fall back to the defaults.
func New(cfg Config) *Limiter {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = DefaultMaxRequests
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Limiter{
		window:   cfg.Window,
		max:      cfg.MaxRequests,
		external: cfg.External,
		local:    NewMemoryStore(cfg.Now),
		now:      cfg.Now,
	}
}

// Decide counts one request from source and reports whether it is allowed.
func (l *Limiter) Decide(ctx context.Context, source string) Decision {
	now := l.now()
	windowMs := l.window.Milliseconds()
	windowID := now.UnixMilli() / windowMs
	key := fmt.Sprintf("rl:%s:%d", source, windowID)
	resetAt := time.UnixMilli((windowID + 1) * windowMs).UTC()

	d := Decision{Max: l.max, ResetAt: resetAt}

	if l.external != nil {
		count, err := l.external.Incr(ctx, key, l.window)
		if err == nil {
			d.Count, d.Source = int(count), SourceExternal
			d.Allowed = d.Count <= l.max
			observability.RateLimit().OnDecision(ctx, d.Source, d.Allowed, d.Count)
			return d
		}
		observability.RateLimit().OnStoreError(ctx, err)
	}

	// The local store cannot fail.
	count, _ := l.local.Incr(ctx, key, l.window)
	d.Count, d.Source = int(count), SourceLocal
	d.Allowed = d.Count <= l.max
	observability.RateLimit().OnDecision(ctx, d.Source, d.Allowed, d.Count)
	return d
}

// Max returns the configured per-window limit.
func (l *Limiter) Max() int { return l.max }
