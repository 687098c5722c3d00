package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds a Memory cache created by NewMemory.
const DefaultMaxEntries = 4096

type entry struct {
	value   []byte
	added   time.Time
	expires time.Time
}

// Memory is a process-local Cache used when no Redis address is configured.
// Expired entries are swept on Set at most once per TTL, and the oldest entry
// is evicted once maxEntries is reached.
type Memory struct {
	mu         sync.Mutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	lastSweep  time.Time
	now        func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return NewMemorySize(ttl, DefaultMaxEntries)
}

// NewMemorySize is NewMemory with an explicit entry cap; limit < 1 means
// DefaultMaxEntries.
func NewMemorySize(ttl time.Duration, limit int) *Memory {
	if limit < 1 {
		limit = DefaultMaxEntries
	}
	return &Memory{
		items:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: limit,
		now:        time.Now,
	}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		return nil, false
	}
	if m.expired(e, m.now()) {
		delete(m.items, key)
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.ttl > 0 && now.Sub(m.lastSweep) >= m.ttl {
		m.sweep(now)
	}
	if _, ok := m.items[key]; !ok && len(m.items) >= m.maxEntries {
		m.evictOldest()
	}
	m.items[key] = entry{
		value:   append([]byte(nil), value...),
		added:   now,
		expires: now.Add(m.ttl),
	}
	return nil
}

func (m *Memory) expired(e entry, now time.Time) bool {
	return m.ttl > 0 && now.After(e.expires)
}

func (m *Memory) sweep(now time.Time) {
	for k, e := range m.items {
		if m.expired(e, now) {
			delete(m.items, k)
		}
	}
	m.lastSweep = now
}

func (m *Memory) evictOldest() {
	var oldest string
	var at time.Time
	first := true
	for k, e := range m.items {
		if first || e.added.Before(at) {
			oldest, at, first = k, e.added, false
		}
	}
	if !first {
		delete(m.items, oldest)
	}
}

// Len reports the number of stored entries, including expired ones not yet
// swept.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
