// internal/store/memory.go
//
// In-memory implementation of the Backend interface.
// This is a lightweight persistence layer used in development/testing, or
// when durability is not required.
//
// Characteristics:
//   - Stores raw values keyed by name in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by a Backend when a key has never been written.
var ErrNotFound = errors.New("store: not found")

// Backend is the durable key-value mechanism behind a Store.
// Implementations may be backed by memory (this file), SQLite, etc.
type Backend interface {
	// Get returns the stored value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the stored value for key.
	Set(ctx context.Context, key string, value []byte) error
}

// memory is an in-memory map-based Backend implementation.
type memory struct {
	mu     sync.RWMutex      // guards values map
	values map[string][]byte // keyed by record name
}

// NewMemoryBackend constructs a new in-memory Backend.
func NewMemoryBackend() Backend {
	return &memory{values: make(map[string][]byte)}
}

// Set adds or replaces the value in the map.
func (m *memory) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Get looks up a value by key.
func (m *memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, ErrNotFound
}
