package readcache

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Backend.
type Memory struct {
	mu       sync.Mutex
	versions map[string]int64
	entries  map[string]memEntry
	tagKeys  map[string]map[string]struct{}
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		versions: make(map[string]int64),
		entries:  make(map[string]memEntry),
		tagKeys:  make(map[string]map[string]struct{}),
		now:      time.Now,
	}
}

func (m *Memory) Versions(_ context.Context, tags []string) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int64, len(tags))
	for i, tag := range tags {
		out[i] = m.versions[tag]
	}
	return out, nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, tags []string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = e
	for _, tag := range tags {
		keys, ok := m.tagKeys[tag]
		if !ok {
			keys = make(map[string]struct{})
			m.tagKeys[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

func (m *Memory) Bump(_ context.Context, tags ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tag := range tags {
		m.versions[tag]++
		for key := range m.tagKeys[tag] {
			delete(m.entries, key)
		}
		delete(m.tagKeys, tag)
	}
	return nil
}

// Len reports the number of live entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
