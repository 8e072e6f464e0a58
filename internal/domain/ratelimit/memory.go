package ratelimit

import (
	"context"
	"sync"
	"time"
)

type windowCounter struct {
	count   int64
	expires time.Time
}

type memoryStore struct {
	counters    map[string]*windowCounter
	mutex       sync.Mutex
	cleanupFreq time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewMemory builds an in-memory fixed-window counter store.
func NewMemory(cfg Config) Store {
	cleanup := 5 * time.Minute
	if cfg.Memory != nil && cfg.Memory.GCInterval > 0 {
		cleanup = cfg.Memory.GCInterval
	}
	s := &memoryStore{
		counters:    make(map[string]*windowCounter),
		cleanupFreq: cleanup,
		stop:        make(chan struct{}),
	}
	go s.gcLoop()
	return s
}

func (s *memoryStore) gcLoop() {
	ticker := time.NewTicker(s.cleanupFreq)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.cleanupExpired()
		case <-s.stop:
			return
		}
	}
}

func (s *memoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	counter, ok := s.counters[key]
	if !ok || now.After(counter.expires) {
		counter = &windowCounter{expires: now.Add(window)}
		s.counters[key] = counter
	}
	counter.count++
	return counter.count, nil
}

func (s *memoryStore) cleanupExpired() {
	now := time.Now()
	s.mutex.Lock()
	for key, counter := range s.counters {
		if now.After(counter.expires) {
			delete(s.counters, key)
		}
	}
	s.mutex.Unlock()
}

func (s *memoryStore) Close(_ context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	return nil
}
