package ratelimit

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryStore is a mutex-guarded fixed-window counter. Expired windows are
// swept lazily on a small fraction of writes to bound memory without a
// background goroutine.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewMemoryStore creates an in-process rate limit store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Check implements Store.
func (s *MemoryStore) Check(_ context.Context, id string, max int, dur time.Duration) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	w, ok := s.windows[id]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(dur)}
		s.windows[id] = w
	}
	w.count++

	if rand.IntN(100) == 0 {
		s.sweep(now)
	}

	remaining := max - w.count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   w.count <= max,
		Remaining: remaining,
		ResetAt:   w.resetAt,
	}, nil
}

// Reset implements Store.
func (s *MemoryStore) Reset(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, id)
	return nil
}

// sweep removes expired windows. Caller must hold the mutex.
func (s *MemoryStore) sweep(now time.Time) {
	for id, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, id)
		}
	}
}
