package revline

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

// collect drains the scanner through Next, failing the test on anything
// other than clean lines and a final io.EOF.
func collect(t *testing.T, s *Scanner) []string {
	t.Helper()
	var lines []string
	for {
		line, err := s.Next()
		if errors.Is(err, io.EOF) {
			return lines
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		lines = append(lines, line)
	}
}

func TestScannerBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty source", "", nil},
		{"single line no terminator", "abc", []string{"abc"}},
		{"single line with terminator", "abc\n", []string{"abc"}},
		{"no trailing terminator", "a\nb\nc", []string{"c", "b", "a"}},
		{"trailing terminator", "a\nb\n", []string{"b", "a"}},
		{"consecutive terminators", "a\n\nb", []string{"b", "", "a"}},
		{"blank lines", "ABCD\n\nXYZ\n\n\n", []string{"", "", "XYZ", "", "ABCD"}},
		{"only blank lines", "\n\n", []string{"", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(NewBytesSource([]byte(tt.input)))
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			got := collect(t, s)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines %q, want %d lines %q", len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestScannerOnlyNewline(t *testing.T) {
	// A source that is exactly one terminator closes a line with no
	// content after it: zero lines, not one empty line.
	s, err := New(NewBytesSource([]byte("\n")))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := collect(t, s); len(got) != 0 {
		t.Errorf("got %q, want no lines", got)
	}
}

func TestScannerLeadingNewline(t *testing.T) {
	// A terminator at offset 0 is a regular terminator: the first-in-file
	// line is empty and comes out last.
	s, err := New(NewBytesSource([]byte("\na")))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	got := collect(t, s)
	want := []string{"a", ""}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestScannerExhaustionIdempotent(t *testing.T) {
	s, err := New(NewBytesSource([]byte("one\ntwo\n")))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	collect(t, s)
	for i := 0; i < 3; i++ {
		if _, err := s.Next(); !errors.Is(err, io.EOF) {
			t.Fatalf("call %d after exhaustion: got %v, want io.EOF", i, err)
		}
	}
}

func TestScannerChunkSizeIndependence(t *testing.T) {
	input := "first\n\nsecond line that is a bit longer\nx\n\nlast"
	want := []string{"last", "", "x", "second line that is a bit longer", "", "first"}

	for _, chunk := range []int{1, 2, 3, 5, 7, 16, 64, DefaultChunkSize} {
		t.Run(fmt.Sprintf("chunk=%d", chunk), func(t *testing.T) {
			s, err := NewWithChunkSize(NewBytesSource([]byte(input)), chunk)
			if err != nil {
				t.Fatalf("NewWithChunkSize failed: %v", err)
			}
			got := collect(t, s)
			if len(got) != len(want) {
				t.Fatalf("got %q, want %q", got, want)
			}
			for i := range got {
				if got[i] != want[i] {
					t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
				}
			}
		})
	}
}

func TestScannerLineLongerThanChunk(t *testing.T) {
	long := strings.Repeat("x", 1000)
	input := "head\n" + long + "\ntail"

	s, err := NewWithChunkSize(NewBytesSource([]byte(input)), 8)
	if err != nil {
		t.Fatalf("NewWithChunkSize failed: %v", err)
	}
	got := collect(t, s)
	want := []string{"tail", long, "head"}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("line %d mismatch (len %d vs %d)", i, len(got[i]), len(want[i]))
		}
	}
}

func TestScannerRoundTrip(t *testing.T) {
	// Reversing the emitted lines and re-joining reproduces the source.
	inputs := []string{
		"a\nb\nc",
		"a\nb\n",
		"single",
		"\nstarts empty\nends\n",
		"lots\nof\n\n\nlines\nhere\n",
	}

	for _, input := range inputs {
		s, err := New(NewBytesSource([]byte(input)))
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		lines := collect(t, s)
		for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
			lines[i], lines[j] = lines[j], lines[i]
		}
		rebuilt := strings.Join(lines, "\n")
		if strings.HasSuffix(input, "\n") {
			rebuilt += "\n"
		}
		if rebuilt != input {
			t.Errorf("round trip of %q produced %q", input, rebuilt)
		}
	}
}

func TestScannerInvalidUTF8(t *testing.T) {
	// The malformed middle line surfaces as a DecodeError and is consumed;
	// iteration continues with the lines before it.
	input := []byte("ok\n\xff\xfe\nlast")
	s, err := NewWithChunkSize(NewBytesSource(input), 4)
	if err != nil {
		t.Fatalf("NewWithChunkSize failed: %v", err)
	}

	line, err := s.Next()
	if err != nil || line != "last" {
		t.Fatalf("first Next: got (%q, %v), want (\"last\", nil)", line, err)
	}

	_, err = s.Next()
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("second Next: got %v, want *DecodeError", err)
	}
	if string(decodeErr.Line) != "\xff\xfe" {
		t.Errorf("DecodeError.Line = %q, want %q", decodeErr.Line, "\xff\xfe")
	}

	line, err = s.Next()
	if err != nil || line != "ok" {
		t.Fatalf("third Next: got (%q, %v), want (\"ok\", nil)", line, err)
	}

	if _, err := s.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("fourth Next: got %v, want io.EOF", err)
	}
}

// failingSource wraps another source and fails the first failures reads.
type failingSource struct {
	inner Source
	fails int
}

func (f *failingSource) Len() (int64, error) {
	return f.inner.Len()
}

func (f *failingSource) ReadBlock(end, max int64) ([]byte, error) {
	if f.fails > 0 {
		f.fails--
		return nil, errors.New("transient read failure")
	}
	return f.inner.ReadBlock(end, max)
}

func TestScannerReadErrorIsRetryable(t *testing.T) {
	src := &failingSource{inner: NewBytesSource([]byte("a\nb\nc")), fails: 1}
	s, err := New(src)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = s.Next()
	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("got %v, want *SourceError", err)
	}
	if srcErr.Op != "read" {
		t.Errorf("SourceError.Op = %q, want \"read\"", srcErr.Op)
	}

	// The failed read mutated nothing, so the same call now succeeds and
	// the full sequence still comes out.
	got := collect(t, s)
	want := []string{"c", "b", "a"}
	if len(got) != len(want) {
		t.Fatalf("after retry got %q, want %q", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

// errLenSource fails the length query.
type errLenSource struct{}

func (errLenSource) Len() (int64, error) {
	return 0, errors.New("length unavailable")
}

func (errLenSource) ReadBlock(end, max int64) ([]byte, error) {
	return nil, errors.New("unreachable")
}

func TestScannerLengthFailure(t *testing.T) {
	_, err := New(errLenSource{})
	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("got %v, want *SourceError", err)
	}
	if srcErr.Op != "length" {
		t.Errorf("SourceError.Op = %q, want \"length\"", srcErr.Op)
	}
}

func TestScannerLines(t *testing.T) {
	s, err := New(NewBytesSource([]byte("a\nb\nc\n")))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var got []string
	for line, err := range s.Lines() {
		if err != nil {
			t.Fatalf("unexpected error mid-range: %v", err)
		}
		got = append(got, line)
	}
	want := []string{"c", "b", "a"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScannerLinesContinuesPastDecodeError(t *testing.T) {
	s, err := New(NewBytesSource([]byte("ok\n\xff\nlast")))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var lines []string
	var decodeErrs int
	for line, err := range s.Lines() {
		if err != nil {
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("unexpected error kind: %v", err)
			}
			decodeErrs++
			continue
		}
		lines = append(lines, line)
	}

	if decodeErrs != 1 {
		t.Errorf("got %d decode errors, want 1", decodeErrs)
	}
	if len(lines) != 2 || lines[0] != "last" || lines[1] != "ok" {
		t.Errorf("got lines %q, want [last ok]", lines)
	}
}

func TestScannerLinesStopsAfterSourceError(t *testing.T) {
	src := &failingSource{inner: NewBytesSource([]byte("a\nb")), fails: 1}
	s, err := New(src)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var yields int
	var sawSourceErr bool
	for _, err := range s.Lines() {
		yields++
		var srcErr *SourceError
		if errors.As(err, &srcErr) {
			sawSourceErr = true
		}
	}
	if !sawSourceErr {
		t.Fatal("expected a SourceError to be yielded")
	}
	if yields != 1 {
		t.Errorf("sequence yielded %d items after source error, want 1", yields)
	}
}
