package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ calls int }

func (f *failingStore) Incr(context.Context, string, time.Duration) (int64, error) {
	f.calls++
	return 0, errors.New("store down")
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestLimiterAllowsUpToMax(t *testing.T) {
	now := time.UnixMilli(1_700_000_030_000)
	l := New(Config{Window: time.Minute, MaxRequests: 3, Now: fixedClock(now)})
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d := l.Decide(ctx, "203.0.113.7")
		assert.True(t, d.Allowed, "request %d", i)
		assert.Equal(t, i, d.Count)
		assert.Equal(t, SourceLocal, d.Source)
	}

	d := l.Decide(ctx, "203.0.113.7")
	assert.False(t, d.Allowed, "the (N+1)-th request is rejected")
	assert.Equal(t, 4, d.Count)
	assert.Equal(t, 0, d.Remaining())

	other := l.Decide(ctx, "198.51.100.1")
	assert.True(t, other.Allowed, "sources are counted separately")
}

func TestLimiterWindowBoundary(t *testing.T) {
	now := time.UnixMilli(1_700_000_030_000)
	clock := &now
	l := New(Config{Window: time.Minute, MaxRequests: 1, Now: func() time.Time { return *clock }})
	ctx := context.Background()

	d := l.Decide(ctx, "ip")
	windowID := now.UnixMilli() / 60_000
	assert.Equal(t, time.UnixMilli((windowID+1)*60_000).UTC(), d.ResetAt)
	assert.False(t, l.Decide(ctx, "ip").Allowed)

	*clock = d.ResetAt
	d = l.Decide(ctx, "ip")
	assert.True(t, d.Allowed, "a new window resets the count")
	assert.Equal(t, 1, d.Count)
}

func TestLimiterDefaults(t *testing.T) {
	l := New(Config{})
	assert.Equal(t, DefaultMaxRequests, l.Max())
	assert.Equal(t, DefaultWindow, l.window)
}

func TestLimiterFallsBackOnStoreError(t *testing.T) {
	store := &failingStore{}
	l := New(Config{Window: time.Minute, MaxRequests: 2, External: store, Now: fixedClock(time.UnixMilli(0))})
	ctx := context.Background()

	d := l.Decide(ctx, "ip")
	assert.True(t, d.Allowed)
	assert.Equal(t, SourceLocal, d.Source)
	assert.Equal(t, 1, store.calls)

	l.Decide(ctx, "ip")
	d = l.Decide(ctx, "ip")
	assert.False(t, d.Allowed, "local fallback still enforces the limit")
}

func TestLimiterRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer store.Close()

	now := time.UnixMilli(1_700_000_030_000)
	l := New(Config{Window: time.Minute, MaxRequests: 2, External: store, Now: fixedClock(now)})
	ctx := context.Background()

	d := l.Decide(ctx, "ip")
	assert.Equal(t, SourceExternal, d.Source)
	assert.Equal(t, 1, d.Count)

	key := fmt.Sprintf("rl:ip:%d", now.UnixMilli()/60_000)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	l.Decide(ctx, "ip")
	d = l.Decide(ctx, "ip")
	assert.False(t, d.Allowed)
	assert.Equal(t, 3, d.Count)
}

func TestLimiterRedisOutage(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	defer store.Close()
	mr.Close()

	l := New(Config{Window: time.Minute, MaxRequests: 5, External: store})
	d := l.Decide(context.Background(), "ip")
	assert.True(t, d.Allowed)
	assert.Equal(t, SourceLocal, d.Source)
}

func TestDialRedisRejectsBadURL(t *testing.T) {
	_, err := DialRedis("http://not-redis")
	require.Error(t, err)
}

func TestDecisionRetryAfter(t *testing.T) {
	now := time.Unix(100, 0)
	d := Decision{ResetAt: now.Add(1500 * time.Millisecond)}
	assert.Equal(t, 2, d.RetryAfter(now))

	d = Decision{ResetAt: now.Add(-time.Second)}
	assert.Equal(t, 1, d.RetryAfter(now), "retry-after is at least one second")
}

func TestMemoryStoreConcurrent(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Incr(ctx, "k", time.Minute)
		}()
	}
	wg.Wait()

	n, err := s.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 51, n)
}

func TestMemoryStoreExpiry(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewMemoryStore(func() time.Time { return now })
	ctx := context.Background()

	n, _ := s.Incr(ctx, "k", time.Second)
	assert.EqualValues(t, 1, n)
	now = now.Add(time.Second)
	n, _ = s.Incr(ctx, "k", time.Second)
	assert.EqualValues(t, 1, n, "expired bucket restarts at 1")
}
