package cache

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/devlens/pkg/errors"
	"github.com/matzehuels/devlens/pkg/observability"
)

// Outcome tells a caller how its value was obtained.
type Outcome string

const (
	OutcomeHit      Outcome = "HIT"      // served from the cache
	OutcomeMiss     Outcome = "MISS"     // this caller started the run
	OutcomeInflight Outcome = "INFLIGHT" // joined a run another caller started
)

// Coalescer fronts a [Cache] and guarantees at most one concurrent run of the
// producer per key.
//
// A run is detached from the context of the caller that started it and is
// cancelled only once every caller waiting on it has gone away. The in-flight
// marker is cleared whether the run succeeds or fails; only successes are
// cached.
type Coalescer[V any] struct {
	cache   Cache[V]
	ttl     time.Duration
	keyType string

	mu    sync.Mutex
	calls map[string]*call[V]
}

type call[V any] struct {
	done    chan struct{}
	val     V
	err     error
	waiters int
	cancel  context.CancelFunc
}

// NewCoalescer wraps store. ttl is passed to every Set.
func NewCoalescer[V any](store Cache[V], ttl time.Duration, keyType string) *Coalescer[V] {
	if store == nil {
		store = NewNullCache[V]()
	}
	return &Coalescer[V]{
		cache:   store,
		ttl:     ttl,
		keyType: keyType,
		calls:   make(map[string]*call[V]),
	}
}

// Do returns the cached value for key, joins an in-flight run for key, or
// starts fn. A caller whose ctx ends while waiting receives a CANCELED (or
// TIMEOUT) error; the run itself continues while other callers wait.
func (c *Coalescer[V]) Do(ctx context.Context, key string, fn func(context.Context) (V, error)) (V, Outcome, error) {
	if v, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		return v, OutcomeHit, nil
	}

	c.mu.Lock()
	if cl, ok := c.calls[key]; ok {
		cl.waiters++
		c.mu.Unlock()
		observability.Cache().OnCoalesced(ctx, c.keyType)
		return c.wait(ctx, key, cl, OutcomeInflight)
	}
	// A run may have finished between the first lookup and taking the lock.
	if v, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		c.mu.Unlock()
		return v, OutcomeHit, nil
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	cl := &call[V]{done: make(chan struct{}), waiters: 1, cancel: cancel}
	c.calls[key] = cl
	c.mu.Unlock()

	go c.run(runCtx, key, cl, fn)
	return c.wait(ctx, key, cl, OutcomeMiss)
}

func (c *Coalescer[V]) run(ctx context.Context, key string, cl *call[V], fn func(context.Context) (V, error)) {
	defer cl.cancel()
	defer func() {
		if r := recover(); r != nil {
			cl.err = errors.New(errors.ErrCodeInternal, "analysis panicked: %v", r)
		}
		c.mu.Lock()
		if c.calls[key] == cl {
			delete(c.calls, key)
		}
		c.mu.Unlock()
		close(cl.done)
	}()

	v, err := fn(ctx)
	if err == nil {
		_ = c.cache.Set(ctx, key, v, c.ttl)
	}
	cl.val, cl.err = v, err
}

func (c *Coalescer[V]) wait(ctx context.Context, key string, cl *call[V], outcome Outcome) (V, Outcome, error) {
	select {
	case <-cl.done:
		return cl.val, outcome, cl.err
	case <-ctx.Done():
		c.mu.Lock()
		cl.waiters--
		if cl.waiters == 0 {
			cl.cancel()
			if c.calls[key] == cl {
				delete(c.calls, key)
			}
		}
		c.mu.Unlock()
		var zero V
		return zero, outcome, errors.FromContext(ctx.Err())
	}
}

// InFlight reports the number of keys with a run in progress.
func (c *Coalescer[V]) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}
