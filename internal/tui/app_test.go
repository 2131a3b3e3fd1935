package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/velten/backtail/internal/clipboard/mockboard"
	"github.com/velten/backtail/revline"
)

func newTestLoader(t *testing.T, content string) *revline.Scanner {
	t.Helper()
	s, err := revline.New(revline.NewBytesSource([]byte(content)))
	if err != nil {
		t.Fatalf("revline.New failed: %v", err)
	}
	return s
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewModelLoadsTailInFileOrder(t *testing.T) {
	m := NewModel("test.log", newTestLoader(t, "one\ntwo\nthree\n"), mockboard.New())

	want := []string{"one", "two", "three"}
	if len(m.lines) != len(want) {
		t.Fatalf("loaded %d lines, want %d", len(m.lines), len(want))
	}
	for i := range want {
		if m.lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, m.lines[i], want[i])
		}
	}
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want 2 (last line)", m.Cursor)
	}
	if !m.atTop {
		t.Error("small file should be fully loaded")
	}
}

func TestScrollUpLoadsOlderLines(t *testing.T) {
	var b strings.Builder
	total := loadBatch*2 + 10
	for i := 0; i < total; i++ {
		fmt.Fprintf(&b, "line-%d\n", i)
	}
	m := NewModel("big.log", newTestLoader(t, b.String()), mockboard.New())

	if len(m.lines) != loadBatch {
		t.Fatalf("initial load = %d lines, want %d", len(m.lines), loadBatch)
	}
	if m.atTop {
		t.Fatal("file should not be fully loaded yet")
	}
	// The loaded window is the end of the file, in file order.
	if m.lines[len(m.lines)-1] != fmt.Sprintf("line-%d", total-1) {
		t.Errorf("last loaded line = %q", m.lines[len(m.lines)-1])
	}

	// Jumping toward the start of the file must pull older batches in.
	before := len(m.lines)
	m.Update(keyRune('g'))
	if len(m.lines) <= before {
		t.Errorf("jumping up did not load more lines (%d -> %d)", before, len(m.lines))
	}
	if m.Cursor < 0 || m.Cursor >= len(m.lines) {
		t.Errorf("cursor %d out of range after load", m.Cursor)
	}
}

func TestGRepeatedReachesTop(t *testing.T) {
	var b strings.Builder
	for i := 0; i < loadBatch*3; i++ {
		fmt.Fprintf(&b, "line-%d\n", i)
	}
	m := NewModel("big.log", newTestLoader(t, b.String()), mockboard.New())

	for i := 0; i < 10 && !m.atTop; i++ {
		m.Update(keyRune('g'))
		m.Update(keyRune('k'))
	}
	if !m.atTop {
		t.Fatal("never reached the top of the file")
	}
	if m.lines[0] != "line-0" {
		t.Errorf("first loaded line = %q, want line-0", m.lines[0])
	}
}

func TestCopyLine(t *testing.T) {
	clip := mockboard.New()
	m := NewModel("test.log", newTestLoader(t, "alpha\nbeta\n"), clip)

	m.Update(keyRune('c'))
	if got := string(clip.GetData()); got != "beta" {
		t.Errorf("clipboard = %q, want %q", got, "beta")
	}
	if m.FlashMessage == "" {
		t.Error("expected a flash message after copy")
	}

	m.Update(keyRune('k'))
	m.Update(keyRune('c'))
	if got := string(clip.GetData()); got != "alpha" {
		t.Errorf("clipboard = %q, want %q", got, "alpha")
	}
}

func TestCopyOnEmptyFile(t *testing.T) {
	clip := mockboard.New()
	m := NewModel("empty.log", newTestLoader(t, ""), clip)

	m.Update(keyRune('c'))
	if len(clip.GetData()) != 0 {
		t.Errorf("clipboard = %q, want empty", clip.GetData())
	}
	if m.FlashMessage != "No line selected" {
		t.Errorf("flash = %q", m.FlashMessage)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{
		keyRune('q'),
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		m := NewModel("test.log", newTestLoader(t, "a\n"), mockboard.New())
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("key %q: expected quit command", msg.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("key %q: command produced %T, want tea.QuitMsg", msg.String(), cmd())
		}
	}
}

func TestHelpToggle(t *testing.T) {
	m := NewModel("test.log", newTestLoader(t, "a\n"), mockboard.New())

	m.Update(keyRune('z'))
	if m.CurrentMode != HelpMode {
		t.Fatalf("mode = %v, want HelpMode", m.CurrentMode)
	}
	if !strings.Contains(m.View(), "NAVIGATION") {
		t.Error("help view missing help content")
	}

	m.Update(keyRune('z'))
	if m.CurrentMode != NormalMode {
		t.Errorf("mode = %v, want NormalMode", m.CurrentMode)
	}
}

func TestInvalidLineShowsPlaceholder(t *testing.T) {
	m := NewModel("test.log", newTestLoader(t, "ok\n\xff\xfe\nlast\n"), mockboard.New())

	want := []string{"ok", invalidLinePlaceholder, "last"}
	if len(m.lines) != len(want) {
		t.Fatalf("loaded %d lines, want %d", len(m.lines), len(want))
	}
	for i := range want {
		if m.lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, m.lines[i], want[i])
		}
	}
}

func TestViewShowsFileNameAndPosition(t *testing.T) {
	m := NewModel("app.log", newTestLoader(t, "a\nb\nc\n"), mockboard.New())
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 10})

	view := m.View()
	if !strings.Contains(view, "app.log") {
		t.Error("view missing file name")
	}
	if !strings.Contains(view, "line 3/3") {
		t.Errorf("view missing position indicator:\n%s", view)
	}
	if !strings.Contains(view, "[TOP]") {
		t.Error("view missing TOP marker for a fully loaded file")
	}
}

func TestResizeKeepsCursorVisible(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "line-%d\n", i)
	}
	m := NewModel("test.log", newTestLoader(t, b.String()), mockboard.New())

	m.Update(tea.WindowSizeMsg{Width: 40, Height: 8})
	vh := m.viewHeight()
	if m.Cursor < m.Top || m.Cursor >= m.Top+vh {
		t.Errorf("cursor %d not visible in [%d, %d)", m.Cursor, m.Top, m.Top+vh)
	}

	m.Update(tea.WindowSizeMsg{Width: 40, Height: 30})
	vh = m.viewHeight()
	if m.Cursor < m.Top || m.Cursor >= m.Top+vh {
		t.Errorf("after growing: cursor %d not visible in [%d, %d)", m.Cursor, m.Top, m.Top+vh)
	}
}
