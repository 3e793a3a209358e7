// Package memory provides an in-process implementation of
// storage.Storage. Every test gets its own isolated store; it is also
// selectable as a backend for throwaway local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aanand-mishra/hostel-api/internal/storage"
)

type entry struct {
	data    []byte
	version int64
}

// Memory keeps collections in a map guarded by a mutex.
type Memory struct {
	mu   sync.Mutex
	cols map[storage.Kind]entry
}

// New returns an empty store.
func New() *Memory {
	return &Memory{cols: make(map[storage.Kind]entry)}
}

func (m *Memory) Get(_ context.Context, kind storage.Kind) (storage.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.cols[kind]
	if !ok {
		return storage.Collection{Kind: kind}, nil
	}
	// Copy so callers can't mutate what we hold.
	data := append([]byte(nil), e.data...)
	return storage.Collection{Kind: kind, Data: data, Version: e.version}, nil
}

func (m *Memory) Put(_ context.Context, cols ...storage.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Validate every version before touching anything so the write is
	// all-or-nothing.
	for _, c := range cols {
		if cur := m.cols[c.Kind].version; cur != c.Version {
			return fmt.Errorf("memory.Put %s: have v%d, want v%d: %w",
				c.Kind, cur, c.Version, storage.ErrVersionConflict)
		}
	}
	for _, c := range cols {
		m.cols[c.Kind] = entry{
			data:    append([]byte(nil), c.Data...),
			version: c.Version + 1,
		}
	}
	return nil
}

func (m *Memory) Close() error { return nil }
