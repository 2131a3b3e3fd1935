// Package tui implements the interactive pager. The view starts at the
// end of the file and pulls older lines through a reverse line scanner
// only when the user scrolls up past what has been loaded, so opening a
// huge log stays cheap.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/velten/backtail/internal/clipboard"
	"github.com/velten/backtail/revline"
)

// loadBatch is how many extra lines are pulled whenever scrolling runs
// past the loaded window.
const loadBatch = 128

// invalidLinePlaceholder stands in for lines that are not valid UTF-8.
const invalidLinePlaceholder = "(invalid UTF-8 line)"

// LineLoader produces lines newest-first; *revline.Scanner satisfies it.
type LineLoader interface {
	Next() (string, error)
}

// UIMode represents the current modal state of the pager
type UIMode int

const (
	NormalMode UIMode = iota
	HelpMode
)

type flashExpiredMsg struct{}

// Model is the pager's bubbletea model.
type Model struct {
	FileName string
	loader   LineLoader
	clip     clipboard.Clipboard

	// Loaded window, in file order: lines[0] is the oldest loaded line,
	// the last element is the last line of the file.
	lines   []string
	atTop   bool   // the first line of the file has been loaded
	loadErr string // non-empty once a source error stopped loading

	Width       int
	Height      int
	Cursor      int // index into lines of the selected line
	Top         int // index of the first visible line
	CurrentMode UIMode

	FlashMessage string
	FlashExpiry  time.Time
}

// NewModel creates a pager over loader and performs the initial load so
// the first render already shows the end of the file.
func NewModel(fileName string, loader LineLoader, clip clipboard.Clipboard) *Model {
	m := &Model{
		FileName:    fileName,
		loader:      loader,
		clip:        clip,
		Width:       80,
		Height:      24,
		CurrentMode: NormalMode,
	}
	m.loadMore(loadBatch)
	if len(m.lines) > 0 {
		m.Cursor = len(m.lines) - 1
	}
	m.clampScroll()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.clampScroll()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case flashExpiredMsg:
		m.FlashMessage = ""
		m.FlashExpiry = time.Time{}
		return m, nil
	}
	return m, nil
}

// handleKey processes key presses, checking the current mode first.
func (m *Model) handleKey(key string) (tea.Model, tea.Cmd) {
	if m.CurrentMode == HelpMode {
		switch key {
		case "ctrl+c":
			return m, tea.Quit
		case "z", "esc", "q":
			m.CurrentMode = NormalMode
		}
		return m, nil
	}

	switch key {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "z":
		m.CurrentMode = HelpMode
		return m, nil
	case "c":
		return m, m.copyLine()
	case "k", "up":
		m.moveCursor(-1)
	case "j", "down":
		m.moveCursor(1)
	case "ctrl+u":
		m.moveCursor(-m.viewHeight() / 2)
	case "ctrl+d":
		m.moveCursor(m.viewHeight() / 2)
	case "ctrl+b":
		m.moveCursor(-m.viewHeight())
	case "ctrl+f":
		m.moveCursor(m.viewHeight())
	case "g":
		m.moveCursor(-len(m.lines) - loadBatch)
	case "G":
		m.Cursor = max(len(m.lines)-1, 0)
		m.clampScroll()
	}
	return m, nil
}

// moveCursor shifts the selection, loading older lines when the move runs
// past the top of the loaded window.
func (m *Model) moveCursor(delta int) {
	if delta < 0 {
		needed := -(m.Cursor + delta)
		if needed > 0 && !m.atTop && m.loadErr == "" {
			m.loadMore(needed + loadBatch)
		}
	}
	m.Cursor += delta
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.Cursor > len(m.lines)-1 {
		m.Cursor = max(len(m.lines)-1, 0)
	}
	m.clampScroll()
}

// loadMore pulls up to n older lines and prepends them to the window,
// shifting cursor and scroll so the view does not jump.
func (m *Model) loadMore(n int) {
	var pulled []string // newest first, as the loader produces them
	for len(pulled) < n {
		line, err := m.loader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				m.atTop = true
				break
			}
			var decodeErr *revline.DecodeError
			if errors.As(err, &decodeErr) {
				pulled = append(pulled, invalidLinePlaceholder)
				continue
			}
			m.loadErr = err.Error()
			break
		}
		pulled = append(pulled, line)
	}
	if len(pulled) == 0 {
		return
	}

	older := make([]string, len(pulled))
	for i, line := range pulled {
		older[len(pulled)-1-i] = line
	}
	m.lines = append(older, m.lines...)
	m.Cursor += len(older)
	m.Top += len(older)
}

// LineCount reports how many lines are currently loaded.
func (m *Model) LineCount() int {
	return len(m.lines)
}

// viewHeight is the number of body rows, leaving room for the header and
// status lines.
func (m *Model) viewHeight() int {
	return max(m.Height-2, 1)
}

// clampScroll keeps the cursor on screen and the scroll offset in range.
func (m *Model) clampScroll() {
	vh := m.viewHeight()
	if m.Cursor < m.Top {
		m.Top = m.Cursor
	}
	if m.Cursor >= m.Top+vh {
		m.Top = m.Cursor - vh + 1
	}
	maxTop := max(len(m.lines)-vh, 0)
	if m.Top > maxTop {
		m.Top = maxTop
	}
	if m.Top < 0 {
		m.Top = 0
	}
}

// copyLine copies the selected line to the clipboard.
func (m *Model) copyLine() tea.Cmd {
	if len(m.lines) == 0 {
		return m.setFlashMessage("No line selected", 2*time.Second)
	}
	line := m.lines[m.Cursor]
	if err := m.clip.Write([]byte(line)); err != nil {
		return m.setFlashMessage(fmt.Sprintf("Copy failed: %v", err), 2*time.Second)
	}
	return m.setFlashMessage(fmt.Sprintf("Copied %d bytes to clipboard", len(line)), 2*time.Second)
}

// setFlashMessage sets a message that disappears after the given duration.
func (m *Model) setFlashMessage(message string, duration time.Duration) tea.Cmd {
	m.FlashMessage = message
	m.FlashExpiry = time.Now().Add(duration)
	return tea.Tick(duration, func(time.Time) tea.Msg {
		return flashExpiredMsg{}
	})
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	flashStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.CurrentMode == HelpMode {
		return m.helpView()
	}

	var b strings.Builder
	b.WriteString(headerStyle.MaxWidth(m.Width).Render(m.headerLine()))
	b.WriteString("\n")

	vh := m.viewHeight()
	for row := 0; row < vh; row++ {
		idx := m.Top + row
		if idx < len(m.lines) {
			line := m.lines[idx]
			if idx == m.Cursor {
				b.WriteString(cursorStyle.MaxWidth(m.Width).Render(line))
			} else {
				b.WriteString(lipgloss.NewStyle().MaxWidth(m.Width).Render(line))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine())
	return b.String()
}

func (m *Model) headerLine() string {
	marker := ""
	if m.atTop {
		marker = " [TOP]"
	}
	return fmt.Sprintf("%s — %d lines loaded%s", m.FileName, len(m.lines), marker)
}

func (m *Model) statusLine() string {
	if m.FlashMessage != "" && time.Now().Before(m.FlashExpiry) {
		return flashStyle.MaxWidth(m.Width).Render(m.FlashMessage)
	}
	if m.loadErr != "" {
		return errorStyle.MaxWidth(m.Width).Render("read error: " + m.loadErr)
	}

	position := "empty file"
	if len(m.lines) > 0 {
		position = fmt.Sprintf("line %d/%d", m.Cursor+1, len(m.lines))
	}
	status := fmt.Sprintf("%s • j/k scroll • c copy • z help • q quit", position)
	return lipgloss.NewStyle().MaxWidth(m.Width).Render(status)
}

func (m *Model) helpView() string {
	helpContent := `backtail — backward log pager

NAVIGATION:
  j, ↓        Move down one line
  k, ↑        Move up one line (loads older lines as needed)
  Ctrl+u/d    Half page up / down
  Ctrl+b/f    Full page up / down
  g           Jump toward the top of the loaded window
  G           Jump to the end of the file

CLIPBOARD:
  c           Copy the selected line

GLOBAL:
  z           Toggle this help screen
  q, Esc      Quit
  Ctrl+c      Force quit

Lines are loaded lazily from the end of the file; the [TOP] marker in the
header appears once the first line of the file has been reached.

Press z again to return to the pager.`

	helpStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1).
		Width(max(m.Width-4, 20))

	return helpStyle.Render(helpContent)
}
