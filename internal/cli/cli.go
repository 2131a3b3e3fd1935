package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/velten/backtail/internal/clipboard"
	"github.com/velten/backtail/internal/clipboard/sysboard"
	"github.com/velten/backtail/internal/config"
	"github.com/velten/backtail/internal/history"
	"github.com/velten/backtail/internal/store"
	"github.com/velten/backtail/internal/store/dbstore"
	"github.com/velten/backtail/internal/tui"
	"github.com/velten/backtail/revline"
)

// CLI handles the command-line interface
type CLI struct {
	config        *config.Config
	configManager *config.ConfigManager
	manager       *history.Manager
	store         store.Store
	clipboard     clipboard.Clipboard

	out    io.Writer
	errOut io.Writer
	in     io.Reader
}

// New creates a new CLI instance
func New() (*CLI, error) {
	return NewWithArgs(nil)
}

// NewWithArgs creates a new CLI instance with custom arguments for database path
func NewWithArgs(args *Args) (*CLI, error) {
	configManager, err := config.NewConfigManager()
	if err != nil {
		return nil, err
	}
	cfg, err := configManager.Load()
	if err != nil {
		return nil, err
	}

	// Database path precedence: flag > config > default
	var dbPath string
	switch {
	case args != nil && args.DB != nil:
		dbPath = *args.DB
	case cfg.HistoryLocation != "":
		dbPath = cfg.HistoryLocation
	default:
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, ".config", "backtail", "backtail.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	sqliteStore, err := dbstore.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	manager, err := history.NewManagerWithLimit(sqliteStore, cfg.HistoryLimit)
	if err != nil {
		sqliteStore.Close()
		return nil, fmt.Errorf("failed to create history manager: %w", err)
	}

	return &CLI{
		config:        cfg,
		configManager: configManager,
		manager:       manager,
		store:         sqliteStore,
		clipboard:     sysboard.New(),
		out:           os.Stdout,
		errOut:        os.Stderr,
		in:            os.Stdin,
	}, nil
}

// newWithDeps builds a CLI around injected dependencies. Tests use it to
// swap in memory stores, mock clipboards, and captured output.
func newWithDeps(cfg *config.Config, cm *config.ConfigManager, s store.Store, clip clipboard.Clipboard, out, errOut io.Writer, in io.Reader) (*CLI, error) {
	manager, err := history.NewManagerWithLimit(s, cfg.HistoryLimit)
	if err != nil {
		return nil, err
	}
	return &CLI{
		config:        cfg,
		configManager: cm,
		manager:       manager,
		store:         s,
		clipboard:     clip,
		out:           out,
		errOut:        errOut,
		in:            in,
	}, nil
}

// Execute runs the CLI command based on parsed arguments
func (c *CLI) Execute(args *Args) error {
	if err := args.Validate(); err != nil {
		return err
	}

	switch {
	case args.Tail != nil:
		return c.executeTail(args.Tail)
	case args.View != nil:
		return c.executeView(args.View)
	case args.History != nil:
		return c.executeHistory(args.History)
	case args.Config != nil:
		return c.executeConfig(args.Config)
	default:
		return fmt.Errorf("no command specified (try 'backtail tail <file>' or 'backtail --help')")
	}
}

// Close releases the CLI's resources.
func (c *CLI) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

// executeTail handles the 'backtail tail' command
func (c *CLI) executeTail(cmd *TailCmd) error {
	count := c.config.TailLines
	if cmd.Lines != nil {
		count = *cmd.Lines
	}
	chunk := c.config.ChunkSize
	if cmd.ChunkSize != nil {
		chunk = *cmd.ChunkSize
	}

	file, err := os.Open(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", cmd.File, err)
	}
	defer file.Close()

	src, err := revline.NewFileSource(file)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", cmd.File, err)
	}
	scanner, err := revline.NewWithChunkSize(src, chunk)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.File, err)
	}

	// Newest first, as the scanner produces them.
	var lines []string
	for len(lines) < count {
		line, err := scanner.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var decodeErr *revline.DecodeError
			if errors.As(err, &decodeErr) {
				fmt.Fprintf(c.errOut, "Warning: skipping line with invalid UTF-8\n")
				continue
			}
			return fmt.Errorf("failed to read %s: %w", cmd.File, err)
		}
		lines = append(lines, line)
	}

	if !cmd.Reverse {
		for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
			lines[i], lines[j] = lines[j], lines[i]
		}
	}
	for _, line := range lines {
		fmt.Fprintln(c.out, line)
	}

	size, _ := src.Len()
	c.recordView(cmd.File, len(lines), size)
	return nil
}

// executeView handles the 'backtail view' command
func (c *CLI) executeView(cmd *ViewCmd) error {
	file, err := os.Open(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", cmd.File, err)
	}
	defer file.Close()

	src, err := revline.NewFileSource(file)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", cmd.File, err)
	}
	scanner, err := revline.NewWithChunkSize(src, c.config.ChunkSize)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.File, err)
	}

	model := tui.NewModel(cmd.File, scanner, c.clipboard)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("pager failed: %w", err)
	}

	size, _ := src.Len()
	c.recordView(cmd.File, model.LineCount(), size)
	return nil
}

// recordView adds a history entry. History failures are warnings, not
// command failures.
func (c *CLI) recordView(path string, lines int, size int64) {
	if c.manager == nil {
		return
	}
	if _, err := c.manager.Touch(path, lines, size); err != nil {
		fmt.Fprintf(c.errOut, "Warning: failed to record history: %v\n", err)
	}
}

var (
	historyHeaderStyle = lipgloss.NewStyle().Bold(true)
	historyTimeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// executeHistory handles the 'backtail history' command
func (c *CLI) executeHistory(cmd *HistoryCmd) error {
	if cmd.Clear != nil {
		return c.executeHistoryClear(cmd.Clear)
	}

	limit := 0
	if cmd.Limit != nil {
		limit = *cmd.Limit
	}
	entries, err := c.manager.List(limit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(c.out, "History is empty.")
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "Files show up here after 'backtail tail' or 'backtail view'.")
		return nil
	}

	fmt.Fprintln(c.out, historyHeaderStyle.Render("Recently viewed:"))
	for _, entry := range entries {
		when := historyTimeStyle.Render(entry.ViewedAt.Format("2006-01-02 15:04"))
		fmt.Fprintf(c.out, "  %s  %s  (%d lines, %s)\n",
			when, entry.Path, entry.Lines, formatSize(entry.Size))
	}
	return nil
}

// executeHistoryClear handles the 'backtail history clear' command
func (c *CLI) executeHistoryClear(cmd *HistoryClearCmd) error {
	count, err := c.manager.Count()
	if err != nil {
		return fmt.Errorf("failed to count history entries: %w", err)
	}
	if count == 0 {
		fmt.Fprintln(c.out, "History is already empty.")
		return nil
	}

	if !cmd.Force {
		fmt.Fprintf(c.out, "This will delete %d history entries. Continue? [y/N]: ", count)
		var response string
		fmt.Fscanln(c.in, &response)
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(c.out, "Cancelled.")
			return nil
		}
	}

	if err := c.manager.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	fmt.Fprintf(c.out, "Cleared %d history entries.\n", count)
	return nil
}

// executeConfig handles the 'backtail config' command
func (c *CLI) executeConfig(cmd *ConfigCmd) error {
	switch {
	case cmd.Get != nil:
		value, err := c.configManager.Get(cmd.Get.Key)
		if err != nil {
			return fmt.Errorf("failed to get config value: %w", err)
		}
		fmt.Fprintln(c.out, value)
		return nil

	case cmd.Set != nil:
		if err := c.configManager.Update(cmd.Set.Key, cmd.Set.Value); err != nil {
			return fmt.Errorf("failed to set config value: %w", err)
		}
		fmt.Fprintf(c.out, "Set %s = %s\n", cmd.Set.Key, cmd.Set.Value)
		return nil

	case cmd.List != nil:
		values, err := c.configManager.List()
		if err != nil {
			return fmt.Errorf("failed to list config values: %w", err)
		}
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		fmt.Fprintln(c.out, "Current configuration:")
		for _, key := range keys {
			fmt.Fprintf(c.out, "  %s = %s\n", key, values[key])
		}
		return nil

	default:
		return fmt.Errorf("no config subcommand specified")
	}
}

// formatSize renders a byte count for history listings.
func formatSize(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
