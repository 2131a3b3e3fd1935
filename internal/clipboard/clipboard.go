// Package clipboard defines the clipboard capability the pager uses to
// copy lines out of a file. The sysboard subpackage backs it with the
// system clipboard; mockboard provides an in-memory double for tests.
package clipboard

// Clipboard writes text snippets to a clipboard.
type Clipboard interface {
	// Write places data on the clipboard as text.
	Write(data []byte) error

	// IsSupported reports whether clipboard operations can work in this
	// environment.
	IsSupported() bool
}
