package ratelimit

import (
	"context"
	"time"
)

// Store counts hits per key inside a fixed window. Incr must be atomic:
// concurrent bursts may never undercount.
type Store interface {
	// Incr adds one hit for the key's current window and returns the
	// resulting count.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Close(ctx context.Context) error
}

// Config describes the high level store selection parameters.
type Config struct {
	Driver string
	Redis  *RedisConfig
	Memory *MemoryConfig
}

// MemoryConfig holds in-memory tuning knobs.
type MemoryConfig struct {
	GCInterval time.Duration
}

// RedisConfig captures connection options.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}
