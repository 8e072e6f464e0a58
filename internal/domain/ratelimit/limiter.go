package ratelimit

import (
	"context"
	"time"
)

// Limiter enforces a fixed-window threshold over a counter store.
type Limiter struct {
	store  Store
	limit  int64
	window time.Duration
}

// NewLimiter builds a limiter rejecting keys past limit hits per window.
func NewLimiter(store Store, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		store:  store,
		limit:  int64(limit),
		window: window,
	}
}

// Allow records a hit for the key and reports whether it is still under
// the threshold. On a store failure the request is allowed: a broken
// counter backend must not take the API down.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return true, err
	}
	return count <= l.limit, nil
}
