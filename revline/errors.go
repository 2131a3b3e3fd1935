package revline

import "fmt"

// SourceError reports a failure of the underlying byte source: the length
// query at construction, or a block read during iteration. A read failure
// leaves the Scanner's state untouched, so the same Next call may be
// retried.
type SourceError struct {
	Op  string // "length" or "read"
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("revline: source %s: %v", e.Op, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// DecodeError reports a line whose bytes are not valid UTF-8. The line has
// already been consumed when the error is returned, so the following Next
// call proceeds to the line before it; a malformed line never aborts the
// sequence.
type DecodeError struct {
	Line []byte // raw line bytes, terminator stripped
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("revline: line is not valid UTF-8 (%d bytes)", len(e.Line))
}
