// Package sysboard implements the clipboard interface on top of the
// system clipboard. Initialization happens lazily on first use because it
// can fail in headless environments, and that failure should surface as an
// operation error rather than at startup.
package sysboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

// SystemClipboard writes to the system clipboard.
type SystemClipboard struct {
	initOnce sync.Once
	initErr  error
}

// New creates a new SystemClipboard instance
func New() *SystemClipboard {
	return &SystemClipboard{}
}

func (s *SystemClipboard) init() error {
	s.initOnce.Do(func() {
		s.initErr = clipboard.Init()
	})
	return s.initErr
}

// Write implements Clipboard.Write for SystemClipboard
func (s *SystemClipboard) Write(data []byte) error {
	if err := s.init(); err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}
	clipboard.Write(clipboard.FmtText, data)
	return nil
}

// IsSupported returns true if clipboard operations work on this system
func (s *SystemClipboard) IsSupported() bool {
	return s.init() == nil
}
