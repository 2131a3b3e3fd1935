package revline

import (
	"fmt"
	"io"
	"os"
)

// Source is the byte source a Scanner reads from: a seekable, length-known
// byte sequence that serves blocks ending at arbitrary offsets. The source
// is treated as immutable for the lifetime of the Scanner; the Scanner
// never closes it.
type Source interface {
	// Len reports the total size of the source in bytes, as observed at
	// construction time.
	Len() (int64, error)

	// ReadBlock returns the bytes occupying [max(0, end-max), end).
	// It returns fewer than max bytes only when end < max, i.e. when
	// reading a full block would run past the start of the source.
	ReadBlock(end, max int64) ([]byte, error)
}

// ReaderAtSource adapts an io.ReaderAt with a known size.
type ReaderAtSource struct {
	r    io.ReaderAt
	size int64
}

// NewReaderAtSource wraps r, which must hold exactly size readable bytes.
func NewReaderAtSource(r io.ReaderAt, size int64) *ReaderAtSource {
	return &ReaderAtSource{r: r, size: size}
}

// NewFileSource stats f for its current size and serves blocks through
// positioned reads, leaving the file's own read offset alone.
func NewFileSource(f *os.File) (*ReaderAtSource, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return &ReaderAtSource{r: f, size: info.Size()}, nil
}

// Len returns the size the source was constructed with.
func (s *ReaderAtSource) Len() (int64, error) {
	return s.size, nil
}

// ReadBlock reads the bytes in [max(0, end-max), end) via a single ReadAt.
func (s *ReaderAtSource) ReadBlock(end, max int64) ([]byte, error) {
	start := end - max
	if start < 0 {
		start = 0
	}
	buf := make([]byte, end-start)
	if len(buf) == 0 {
		return nil, nil
	}
	n, err := s.r.ReadAt(buf, start)
	if int64(n) < end-start {
		// ReadAt only returns a nil or io.EOF error on a full read.
		return nil, err
	}
	return buf, nil
}

// SeekerSource adapts an io.ReadSeeker, discovering the total length by
// seeking to the end once at construction.
type SeekerSource struct {
	r    io.ReadSeeker
	size int64
}

// NewSeekerSource seeks r to its end to learn the size. It fails when the
// stream does not support seeking, which is also how an unseekable stream
// (a pipe, for example) is rejected.
func NewSeekerSource(r io.ReadSeeker) (*SeekerSource, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to seek to end: %w", err)
	}
	return &SeekerSource{r: r, size: size}, nil
}

// Len returns the size discovered at construction.
func (s *SeekerSource) Len() (int64, error) {
	return s.size, nil
}

// ReadBlock seeks to the block start and reads it fully.
func (s *SeekerSource) ReadBlock(end, max int64) ([]byte, error) {
	start := end - max
	if start < 0 {
		start = 0
	}
	buf := make([]byte, end-start)
	if len(buf) == 0 {
		return nil, nil
	}
	if _, err := s.r.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(s.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// BytesSource serves blocks from an in-memory byte slice.
type BytesSource struct {
	b []byte
}

// NewBytesSource wraps b without copying it. The caller must not mutate b
// while a Scanner is iterating.
func NewBytesSource(b []byte) *BytesSource {
	return &BytesSource{b: b}
}

// Len returns the length of the wrapped slice.
func (s *BytesSource) Len() (int64, error) {
	return int64(len(s.b)), nil
}

// ReadBlock returns a subslice of the wrapped bytes.
func (s *BytesSource) ReadBlock(end, max int64) ([]byte, error) {
	if end > int64(len(s.b)) {
		return nil, fmt.Errorf("block end %d past source end %d", end, len(s.b))
	}
	start := end - max
	if start < 0 {
		start = 0
	}
	return s.b[start:end], nil
}
