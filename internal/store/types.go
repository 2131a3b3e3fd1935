package store

import "time"

// Entry represents one recently viewed file in the history.
// Entries are keyed by absolute path: viewing the same file again updates
// the existing entry rather than adding a second one.
type Entry struct {
	// ID is the unique identifier for this entry.
	ID uint

	// Path is the absolute path of the viewed file.
	Path string

	// Lines is the number of lines requested at the last view.
	Lines int

	// Size is the file size in bytes observed at the last view.
	Size int64

	// ViewedAt is the time of the last view, used for newest-first
	// ordering and for pruning.
	ViewedAt time.Time

	// CreatedAt is the timestamp when the entry was first recorded.
	// Managed automatically by the storage layer.
	CreatedAt time.Time

	// UpdatedAt is the timestamp of the last update.
	// Managed automatically by the storage layer.
	UpdatedAt time.Time
}

// TouchInput contains the data recorded when a file is viewed.
type TouchInput struct {
	// Path is the absolute path of the viewed file (required).
	// Callers resolve relative paths before passing it in.
	Path string

	// Lines is the number of lines requested for this view.
	Lines int

	// Size is the file size in bytes at view time.
	Size int64

	// ViewedAt is the view timestamp. If zero, the storage layer uses the
	// current time.
	ViewedAt time.Time
}
