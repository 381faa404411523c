// apps/go-server/internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used for development, tests, and whenever durability is not required.
//
// Characteristics:
//   - Opaque session blobs keyed by session key.
//   - Concurrency-safe via RWMutex (Get takes the write lock because it
//     slides the expiry forward).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	blob    []byte
	ttl     time.Duration
	expires time.Time
}

// Memory is a map-based Store with sliding expiry.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() *Memory {
	return &Memory{entries: make(map[string]entry), now: time.Now}
}

// Get returns the blob stored under key and extends its expiry by its ttl.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	now := m.now()
	if !e.expires.After(now) {
		delete(m.entries, key)
		return nil, ErrNotFound
	}
	e.expires = now.Add(e.ttl)
	m.entries[key] = e
	return append([]byte(nil), e.blob...), nil
}

// Set stores a copy of blob under key for ttl.
func (m *Memory) Set(ctx context.Context, key string, blob []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{
		blob:    append([]byte(nil), blob...),
		ttl:     ttl,
		expires: m.now().Add(ttl),
	}
	return nil
}

// Sweep drops every entry expired at now.
func (m *Memory) Sweep(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, e := range m.entries {
		if !e.expires.After(now) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
