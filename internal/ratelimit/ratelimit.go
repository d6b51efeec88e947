// Package ratelimit counts attempts per client identifier over a rolling
// window. The memory implementation is the default; the redis one shares
// the counter across processes.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter reports whether another attempt is allowed for key. Counting is
// advisory: a failed backend should not block logins outright, so
// implementations return an error only for genuine backend failures.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type entry struct {
	count   int
	expires time.Time
}

// Memory is a process-local limiter with lazy eviction of expired windows.
type Memory struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

func NewMemory(max int, window time.Duration) *Memory {
	return &Memory{
		max:     max,
		window:  window,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.entries[key]
	if !ok || e.expires.Before(now) {
		m.entries[key] = &entry{count: 1, expires: now.Add(m.window)}
		m.sweep(now)
		return true, nil
	}
	e.count++
	return e.count <= m.max, nil
}

// sweep drops expired windows so the map does not grow unbounded. Called
// under the lock on the cheap path only.
func (m *Memory) sweep(now time.Time) {
	if len(m.entries) < 1024 {
		return
	}
	for k, e := range m.entries {
		if e.expires.Before(now) {
			delete(m.entries, k)
		}
	}
}
