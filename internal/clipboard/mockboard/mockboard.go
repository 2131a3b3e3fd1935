// Package mockboard provides a mock clipboard implementation for testing.
package mockboard

// MockClipboard implements Clipboard for testing
type MockClipboard struct {
	data []byte
	err  error
}

// New creates a new MockClipboard instance
func New() *MockClipboard {
	return &MockClipboard{}
}

// Write implements Clipboard.Write for MockClipboard
func (m *MockClipboard) Write(data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.data = append([]byte(nil), data...)
	return nil
}

// IsSupported always returns true for the mock clipboard
func (m *MockClipboard) IsSupported() bool {
	return m.err == nil
}

// GetData returns the last written data (for testing)
func (m *MockClipboard) GetData() []byte {
	return m.data
}

// FailWith makes all later writes fail with err (for testing)
func (m *MockClipboard) FailWith(err error) {
	m.err = err
}
