package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestStore_GetOrLoadTTL_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, time.Duration, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", time.Minute, nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoadTTL(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoadTTL_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, time.Duration, error) {
		calls.Add(1)
		return "cached", time.Minute, nil
	}

	if _, err := store.GetOrLoadTTL(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoadTTL error: %v", err)
	}
	if _, err := store.GetOrLoadTTL(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoadTTL error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresEntriesWithInjectedClock(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := NewStore(10*time.Second, WithClock(clock.Now))
	ctx := context.Background()

	store.Set(ctx, "session:a", "alice")
	clock.Advance(9 * time.Second)
	if _, ok := store.Get(ctx, "session:a"); !ok {
		t.Fatalf("expected entry before ttl elapsed")
	}

	clock.Advance(time.Second)
	if _, ok := store.Get(ctx, "session:a"); ok {
		t.Fatalf("expected entry to expire exactly at ttl")
	}
	if got := store.Len(); got != 0 {
		t.Fatalf("expected empty store, got %d", got)
	}
}

func TestStore_GetOrLoadTTL_SkipsCachingNonPositiveTTL(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := NewStore(0, WithClock(clock.Now))
	var calls atomic.Int32

	loader := func(context.Context) (any, time.Duration, error) {
		n := calls.Add(1)
		if n == 1 {
			return "short-lived", 0, nil
		}
		return "long-lived", time.Hour, nil
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := store.GetOrLoadTTL(ctx, "token", loader); err != nil {
			t.Fatalf("GetOrLoadTTL error: %v", err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}

	clock.Advance(time.Hour - time.Second)
	if v, ok := store.Get(ctx, "token"); !ok || v != "long-lived" {
		t.Fatalf("expected cached token before its ttl, got %v ok=%v", v, ok)
	}
	clock.Advance(time.Second)
	if _, ok := store.Get(ctx, "token"); ok {
		t.Fatalf("expected token to expire after its ttl")
	}
}

func TestStore_GetOrLoadTTL_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	errBoom := errors.New("boom")
	var calls atomic.Int32

	loader := func(context.Context) (any, time.Duration, error) {
		calls.Add(1)
		return nil, time.Minute, errBoom
	}

	for i := 0; i < 2; i++ {
		if _, err := store.GetOrLoadTTL(context.Background(), "k", loader); !errors.Is(err, errBoom) {
			t.Fatalf("expected boom, got %v", err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}
}

func TestStore_SweepAndDelete(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := NewStore(time.Minute, WithClock(clock.Now))
	ctx := context.Background()

	store.Set(ctx, "session:a", 1)
	store.SetWithTTL(ctx, "session:b", 2, time.Hour)
	store.SetWithTTL(ctx, "pinned", 3, 0)

	clock.Advance(2 * time.Minute)
	if removed := store.Sweep(); removed != 1 {
		t.Fatalf("expected one swept entry, got %d", removed)
	}
	if !store.Delete(ctx, "session:b") {
		t.Fatalf("expected delete to report existing key")
	}
	if store.Delete(ctx, "session:b") {
		t.Fatalf("expected second delete to report missing key")
	}
	if got := store.Len(); got != 1 {
		t.Fatalf("expected only the pinned entry, got %d", got)
	}
	if _, ok := store.Get(ctx, "pinned"); !ok {
		t.Fatalf("expected entry without ttl to survive")
	}
}

func TestStore_RunJanitorStopsOnCancel(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := NewStore(time.Millisecond, WithClock(clock.Now))
	store.Set(context.Background(), "k", "v")
	clock.Advance(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	swept := make(chan int, 1)
	done := make(chan struct{})
	go func() {
		store.RunJanitor(ctx, 5*time.Millisecond, func(removed int) {
			select {
			case swept <- removed:
			default:
			}
		})
		close(done)
	}()

	select {
	case got := <-swept:
		if got != 1 {
			t.Fatalf("expected one swept entry, got %d", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("janitor did not sweep")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("janitor did not stop after cancel")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")

func TestStore_GetOrLoadTTL_LeaderCancelDoesNotFailFollowers(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32

	loader := func(ctx context.Context) (any, time.Duration, error) {
		calls.Add(1)
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		return "token", time.Minute, nil
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := store.GetOrLoadTTL(leaderCtx, "tenant", loader)
		leaderErr <- err
	}()
	<-started

	followerVal := make(chan any, 1)
	go func() {
		v, err := store.GetOrLoadTTL(context.Background(), "tenant", loader)
		if err != nil {
			followerVal <- err
			return
		}
		followerVal <- v
	}()

	cancel()
	time.Sleep(10 * time.Millisecond)
	close(release)

	if err := <-leaderErr; err != nil {
		t.Fatalf("leader: unexpected error %v", err)
	}
	if got := <-followerVal; got != "token" {
		t.Fatalf("follower: got %v, want token", got)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}
