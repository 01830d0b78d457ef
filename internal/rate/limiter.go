// Package rate provides fixed-window request limiters keyed by caller.
package rate

import (
	"context"
	"sync"
	"time"
)

// Limiter reports whether one more hit on key fits in the current window and
// how long until that window resets.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error)
}

type MemoryLimiter struct {
	mu    sync.Mutex
	store map[string]*bucket
	now   func() time.Time
}

type bucket struct {
	count   int
	resetAt time.Time
	window  time.Duration
}

func NewMemory() *MemoryLimiter {
	return &MemoryLimiter{store: make(map[string]*bucket), now: time.Now}
}

func (m *MemoryLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	b, ok := m.store[key]
	if !ok || !now.Before(b.resetAt) || b.window != window {
		b = &bucket{count: 0, resetAt: now.Add(window), window: window}
		m.store[key] = b
	}

	if b.count >= limit {
		return false, b.resetAt.Sub(now), nil
	}

	b.count++
	return true, b.resetAt.Sub(now), nil
}

// Sweep drops buckets whose window has passed.
func (m *MemoryLimiter) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, b := range m.store {
		if !now.Before(b.resetAt) {
			delete(m.store, k)
		}
	}
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *MemoryLimiter) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
