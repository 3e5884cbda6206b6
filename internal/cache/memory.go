package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, key string, dest any) bool {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return false
	}
	return json.Unmarshal(e.data, dest) == nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	e := memoryEntry{data: data}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.items[key] = e
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.items, k)
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Driver() string { return "memory" }
