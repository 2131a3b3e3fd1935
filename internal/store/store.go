// Package store defines the storage interface for backtail's history of
// recently viewed files, along with the types it traffics in. Concrete
// implementations live in the dbstore (SQLite) and memstore (in-memory)
// subpackages.
package store

import "errors"

// ErrNotFound is returned when a lookup names a path with no history
// entry. Both implementations return it so callers can branch with
// errors.Is regardless of the backing store.
var ErrNotFound = errors.New("history entry not found")

// Store manages the persistence of viewed-file history entries.
type Store interface {
	// Touch records a view of input.Path: it creates an entry if the path
	// is new, otherwise it updates the existing entry's view data.
	// Returns the entry as stored.
	Touch(input *TouchInput) (*Entry, error)

	// List returns entries ordered by view time (newest first).
	// If limit is 0, all entries are returned; if limit > 0, at most
	// limit entries are returned.
	List(limit int) ([]*Entry, error)

	// Get retrieves the entry for an absolute path.
	// Returns ErrNotFound if the path has never been recorded.
	Get(path string) (*Entry, error)

	// Delete removes the entry for a path.
	// Returns ErrNotFound if no such entry exists.
	Delete(path string) error

	// Prune removes all but the keep most recently viewed entries.
	// A keep of 0 removes everything.
	Prune(keep int) error

	// Count returns the total number of entries.
	Count() (int, error)

	// Clear removes all entries.
	Clear() error

	// Close releases any resources (DB connections, etc.).
	Close() error
}
