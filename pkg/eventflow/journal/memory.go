package journal

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory journal store for testing and
// single-process diagnostics. Data is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]Entry // contextID -> entries in append order
	closed  bool
}

// NewMemoryStore creates a new in-memory journal store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]Entry),
	}
}

// Append implements Store.
func (m *MemoryStore) Append(_ context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	entry.Sequence = len(m.entries[entry.ContextID]) + 1
	m.entries[entry.ContextID] = append(m.entries[entry.ContextID], entry)
	return nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context, contextID string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	// Return a copy to prevent modification.
	entries := m.entries[contextID]
	result := make([]Entry, len(entries))
	copy(result, entries)
	return result, nil
}

// DeleteContext implements Store.
func (m *MemoryStore) DeleteContext(_ context.Context, contextID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.entries, contextID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.entries = nil
	return nil
}

// Len returns the total number of entries across all contexts.
// Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, entries := range m.entries {
		count += len(entries)
	}
	return count
}
