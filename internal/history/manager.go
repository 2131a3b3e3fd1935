// Package history implements the business logic over the viewed-file
// history store: recording views, listing them newest first, and keeping
// the history bounded.
package history

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/velten/backtail/internal/store"
)

// DefaultLimit is the maximum number of history entries kept unless
// configured otherwise.
const DefaultLimit = 100

// Manager manages the viewed-file history using a store interface.
type Manager struct {
	store store.Store
	limit int
}

// NewManager creates a new history manager with the default entry limit.
func NewManager(s store.Store) (*Manager, error) {
	return NewManagerWithLimit(s, DefaultLimit)
}

// NewManagerWithLimit creates a new history manager with a custom entry
// limit. A non-positive limit falls back to DefaultLimit.
func NewManagerWithLimit(s store.Store, limit int) (*Manager, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{store: s, limit: limit}, nil
}

// Touch records a view of path, resolving it to an absolute path first,
// and prunes the history down to the configured limit.
func (m *Manager) Touch(path string, lines int, size int64) (*store.Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	entry, err := m.store.Touch(&store.TouchInput{
		Path:     abs,
		Lines:    lines,
		Size:     size,
		ViewedAt: time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record view: %w", err)
	}

	if err := m.store.Prune(m.limit); err != nil {
		return nil, fmt.Errorf("failed to prune history: %w", err)
	}
	return entry, nil
}

// List returns up to limit entries newest first; limit 0 means all.
func (m *Manager) List(limit int) ([]*store.Entry, error) {
	return m.store.List(limit)
}

// Count returns the number of history entries.
func (m *Manager) Count() (int, error) {
	return m.store.Count()
}

// Clear removes all history entries.
func (m *Manager) Clear() error {
	return m.store.Clear()
}

// Close releases the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}
