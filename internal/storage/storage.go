// Package storage is the durable key-value store behind the session: a
// small set of string entries that survive process restarts.
package storage

import (
	"errors"
	"sort"
	"sync"
)

// Keys of the persisted session. They are always written and removed
// together.
const (
	KeyAuthToken = "auth_token"
	KeyUser      = "user"
)

// ErrCorrupted is returned when persisted data cannot be trusted
// (checksum mismatch, undecryptable payload, unparseable file).
var ErrCorrupted = errors.New("storage: persisted data is corrupted")

// Store is a string key-value store. Set and Delete apply all their
// entries or none of them.
type Store interface {
	Get(key string) (string, bool, error)
	Set(entries map[string]string) error
	Delete(keys ...string) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range entries {
		m.entries[k] = v
	}
	return nil
}

func (m *MemoryStore) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

// Keys returns the stored keys, sorted.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.entries))
	for k := range m.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
