package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryStore_Incr(t *testing.T) {
	store := NewMemory(Config{})
	defer store.Close(context.Background())
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		count, err := store.Incr(ctx, "1.2.3.4", time.Minute)
		if err != nil {
			t.Fatalf("Incr failed: %v", err)
		}
		if count != i {
			t.Errorf("count = %d, expected %d", count, i)
		}
	}

	// Separate keys count independently.
	count, err := store.Incr(ctx, "5.6.7.8", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("fresh key count = %d, expected 1", count)
	}
}

func TestMemoryStore_WindowReset(t *testing.T) {
	store := NewMemory(Config{})
	defer store.Close(context.Background())
	ctx := context.Background()

	if _, err := store.Incr(ctx, "k", 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)

	count, err := store.Incr(ctx, "k", 10*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("count after window expiry = %d, expected 1", count)
	}
}

func TestMemoryStore_ConcurrentIncr(t *testing.T) {
	store := NewMemory(Config{})
	defer store.Close(context.Background())
	ctx := context.Background()

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			_, _ = store.Incr(ctx, "burst", time.Minute)
		}()
	}
	wg.Wait()

	count, err := store.Incr(ctx, "burst", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if count != goroutines+1 {
		t.Errorf("count = %d, expected %d (no undercounting under bursts)", count, goroutines+1)
	}
}

func TestLimiter_Allow(t *testing.T) {
	store := NewMemory(Config{})
	defer store.Close(context.Background())
	limiter := NewLimiter(store, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "client")
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, err := limiter.Allow(ctx, "client")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("request past the threshold must be rejected")
	}

	// Other clients are unaffected.
	ok, err = limiter.Allow(ctx, "other")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("unrelated key must not be throttled")
	}
}
