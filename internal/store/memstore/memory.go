// Package memstore provides an in-memory implementation of the store
// interface. It is designed for fast unit testing and the demo binary and
// does not persist data.
package memstore

import (
	"sort"
	"sync"
	"time"

	"github.com/velten/backtail/internal/store"
)

// MemoryStore is an in-memory implementation of store.Store.
// It is thread-safe via a mutex; data exists only for the lifetime of the
// process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*store.Entry // keyed by path
	nextID  uint
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*store.Entry),
		nextID:  1,
	}
}

// Touch creates or updates the entry for input.Path.
func (m *MemoryStore) Touch(input *store.TouchInput) (*store.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	viewedAt := input.ViewedAt
	if viewedAt.IsZero() {
		viewedAt = time.Now()
	}
	now := time.Now()

	if entry, ok := m.entries[input.Path]; ok {
		entry.Lines = input.Lines
		entry.Size = input.Size
		entry.ViewedAt = viewedAt
		entry.UpdatedAt = now
		return copyEntry(entry), nil
	}

	entry := &store.Entry{
		ID:        m.nextID,
		Path:      input.Path,
		Lines:     input.Lines,
		Size:      input.Size,
		ViewedAt:  viewedAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.nextID++
	m.entries[input.Path] = entry
	return copyEntry(entry), nil
}

// List returns entries newest first, at most limit when limit > 0.
func (m *MemoryStore) List(limit int) ([]*store.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]*store.Entry, 0, len(m.entries))
	for _, entry := range m.entries {
		entries = append(entries, copyEntry(entry))
	}
	sortNewestFirst(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Get retrieves the entry for a path.
func (m *MemoryStore) Get(path string) (*store.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[path]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyEntry(entry), nil
}

// Delete removes the entry for a path.
func (m *MemoryStore) Delete(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[path]; !ok {
		return store.ErrNotFound
	}
	delete(m.entries, path)
	return nil
}

// Prune removes all but the keep most recently viewed entries.
func (m *MemoryStore) Prune(keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if keep < 0 {
		keep = 0
	}
	if len(m.entries) <= keep {
		return nil
	}

	entries := make([]*store.Entry, 0, len(m.entries))
	for _, entry := range m.entries {
		entries = append(entries, entry)
	}
	sortNewestFirst(entries)
	for _, entry := range entries[keep:] {
		delete(m.entries, entry.Path)
	}
	return nil
}

// Count returns the number of entries.
func (m *MemoryStore) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

// Clear removes all entries.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*store.Entry)
	return nil
}

// Close releases resources (no-op for the memory store).
func (m *MemoryStore) Close() error {
	return nil
}

// sortNewestFirst orders by view time descending, breaking timestamp ties
// by ID so ordering stays deterministic within one clock tick.
func sortNewestFirst(entries []*store.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ViewedAt.Equal(entries[j].ViewedAt) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].ViewedAt.After(entries[j].ViewedAt)
	})
}

// copyEntry returns a copy so callers cannot mutate stored state.
func copyEntry(e *store.Entry) *store.Entry {
	c := *e
	return &c
}
