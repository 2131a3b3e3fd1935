// Package revline reads lines from a seekable byte source starting at the
// end and working toward the beginning, yielding each line in reverse
// order without loading the whole source into memory. The typical use is
// tailing a log file backward: the most recent records come out first, and
// only a sliding window of the file is ever held in memory.
//
// A Scanner pulls fixed-size blocks from a Source, scans them backward for
// newline bytes, and reassembles lines that straddle block boundaries.
// Lines come out terminator-free and in forward byte order; only the order
// of the lines themselves is reversed.
package revline

import (
	"bytes"
	"errors"
	"io"
	"iter"
	"unicode/utf8"
)

// DefaultChunkSize is how many bytes a Scanner pulls per underlying read
// unless configured otherwise. Larger chunks mean fewer reads at the cost
// of peak memory for very long lines.
const DefaultChunkSize = 4096

const lineSep = '\n'

// Scanner iterates over the lines of a Source from last to first. It is
// not safe for concurrent use; readers that need to walk the same source
// in parallel construct independent Scanners over independent sources.
type Scanner struct {
	src       Source
	off       int64  // offset of the first source byte not yet pulled into buf
	buf       []byte // source bytes [off, off+len(buf)), in forward order
	chunk     int64
	started   bool
	exhausted bool
}

// New creates a Scanner over src with the default chunk size. It queries
// the source's length once; a length failure is returned as a
// *SourceError and no Scanner is created.
func New(src Source) (*Scanner, error) {
	return NewWithChunkSize(src, DefaultChunkSize)
}

// NewWithChunkSize creates a Scanner that grows its buffer by chunk bytes
// per underlying read. A non-positive chunk falls back to
// DefaultChunkSize. The emitted lines do not depend on the chunk size,
// only the number of reads does.
func NewWithChunkSize(src Source, chunk int) (*Scanner, error) {
	size, err := src.Len()
	if err != nil {
		return nil, &SourceError{Op: "length", Err: err}
	}
	if size < 0 {
		return nil, &SourceError{Op: "length", Err: errors.New("negative source length")}
	}
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	return &Scanner{
		src:       src,
		off:       size,
		chunk:     int64(chunk),
		exhausted: size == 0,
	}, nil
}

// Next returns the next line moving backward through the source, with its
// terminator stripped. Once the sequence is drained it returns io.EOF, and
// keeps returning io.EOF on every later call.
//
// A *DecodeError means that one line was not valid UTF-8; the line is
// consumed and the following call continues with the line before it. A
// *SourceError means a block read failed; no state was changed, so the
// same call may be retried.
func (s *Scanner) Next() (string, error) {
	if s.exhausted {
		return "", io.EOF
	}
	if !s.started {
		if err := s.start(); err != nil {
			return "", err
		}
		if s.exhausted {
			// The source was a single terminator byte.
			return "", io.EOF
		}
	}
	for {
		if i := bytes.LastIndexByte(s.buf, lineSep); i >= 0 {
			line := s.buf[i+1:]
			s.buf = s.buf[:i]
			return s.decode(line)
		}
		if s.off == 0 {
			// The whole remaining buffer is the first line of the source.
			line := s.buf
			s.buf = nil
			s.exhausted = true
			return s.decode(line)
		}
		if err := s.fill(); err != nil {
			return "", err
		}
	}
}

// start performs the first pull and consumes a trailing terminator, so a
// source ending in a newline does not produce a spurious empty line.
func (s *Scanner) start() error {
	if err := s.fill(); err != nil {
		return err
	}
	s.started = true
	if n := len(s.buf); n > 0 && s.buf[n-1] == lineSep {
		s.buf = s.buf[:n-1]
		if len(s.buf) == 0 && s.off == 0 {
			s.exhausted = true
		}
	}
	return nil
}

// fill pulls one more block ending at off and prepends it to the buffer.
// On failure nothing is mutated.
func (s *Scanner) fill() error {
	block, err := s.src.ReadBlock(s.off, s.chunk)
	if err != nil {
		return &SourceError{Op: "read", Err: err}
	}
	if len(block) == 0 {
		return &SourceError{Op: "read", Err: io.ErrNoProgress}
	}
	s.off -= int64(len(block))
	if len(s.buf) == 0 {
		s.buf = block
		return nil
	}
	merged := make([]byte, len(block)+len(s.buf))
	copy(merged, block)
	copy(merged[len(block):], s.buf)
	s.buf = merged
	return nil
}

func (s *Scanner) decode(line []byte) (string, error) {
	if !utf8.Valid(line) {
		return "", &DecodeError{Line: append([]byte(nil), line...)}
	}
	return string(line), nil
}

// Lines returns a range-over-func view of the remaining lines. The
// sequence ends silently at io.EOF. Decode errors are yielded with an
// empty line and iteration continues; a source error is yielded and then
// ends the sequence, since ranging again would just repeat the same failed
// read (callers that want to retry use Next directly).
func (s *Scanner) Lines() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			line, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				if !yield("", err) {
					return
				}
				var decodeErr *DecodeError
				if !errors.As(err, &decodeErr) {
					return
				}
				continue
			}
			if !yield(line, nil) {
				return
			}
		}
	}
}
