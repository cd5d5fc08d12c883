package ratelimit

import (
	"sync"
	"time"
)

// memoryLimiter is the fixed-window fallback used when no redis address is
// configured. Good enough for a single instance; multi-instance deployments
// should configure redis.
type memoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time
	mu     sync.Mutex
	items  map[string]*windowEntry
}

type windowEntry struct {
	windowStart time.Time
	count       int
}

func newMemoryLimiter(limit int, window time.Duration, now func() time.Time) *memoryLimiter {
	if now == nil {
		now = time.Now
	}
	return &memoryLimiter{
		limit:  limit,
		window: window,
		now:    now,
		items:  make(map[string]*windowEntry),
	}
}

func (m *memoryLimiter) Allow(key string) bool {
	if key == "" {
		return false
	}

	now := m.now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.items[key]
	if entry == nil || now.Sub(entry.windowStart) > m.window {
		entry = &windowEntry{windowStart: now}
		m.items[key] = entry
	}

	if entry.count >= m.limit {
		return false
	}

	entry.count++
	return true
}
