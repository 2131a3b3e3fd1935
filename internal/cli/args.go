package cli

import (
	"fmt"
)

// Args represents the top-level command structure
type Args struct {
	Tail    *TailCmd    `arg:"subcommand:tail" help:"Print the last lines of a file"`
	View    *ViewCmd    `arg:"subcommand:view" help:"Browse a file backward in an interactive pager"`
	History *HistoryCmd `arg:"subcommand:history" help:"Show recently viewed files"`
	Config  *ConfigCmd  `arg:"subcommand:config" help:"Manage configuration"`
	DB      *string     `arg:"--db" help:"Custom history database path"`
}

// TailCmd represents the 'backtail tail' command
type TailCmd struct {
	File      string `arg:"positional,required" help:"File to read"`
	Lines     *int   `arg:"-n,--lines" help:"Number of lines to print (default from config)"`
	Reverse   bool   `arg:"-r,--reverse" help:"Print newest line first"`
	ChunkSize *int   `arg:"--chunk-size" help:"Read window size in bytes"`
}

// ViewCmd represents the 'backtail view' command
type ViewCmd struct {
	File string `arg:"positional,required" help:"File to browse"`
}

// HistoryCmd represents the 'backtail history' command
type HistoryCmd struct {
	Clear *HistoryClearCmd `arg:"subcommand:clear" help:"Delete all history entries"`
	Limit *int             `arg:"-l,--limit" help:"Maximum entries to show"`
}

// HistoryClearCmd represents the 'backtail history clear' command
type HistoryClearCmd struct {
	Force bool `arg:"-f,--force" help:"Skip the confirmation prompt"`
}

// ConfigCmd represents the 'backtail config' command
type ConfigCmd struct {
	Get  *ConfigGetCmd  `arg:"subcommand:get" help:"Print a configuration value"`
	Set  *ConfigSetCmd  `arg:"subcommand:set" help:"Change a configuration value"`
	List *ConfigListCmd `arg:"subcommand:list" help:"Print all configuration values"`
}

// ConfigGetCmd represents the 'backtail config get' command
type ConfigGetCmd struct {
	Key string `arg:"positional,required" help:"Configuration key"`
}

// ConfigSetCmd represents the 'backtail config set' command
type ConfigSetCmd struct {
	Key   string `arg:"positional,required" help:"Configuration key"`
	Value string `arg:"positional,required" help:"New value"`
}

// ConfigListCmd represents the 'backtail config list' command
type ConfigListCmd struct{}

// Description returns the program description
func (Args) Description() string {
	return "backtail - Read files from the end, lazily"
}

// Version returns the program version
func (Args) Version() string {
	return "backtail 0.1.0"
}

// Epilogue returns additional help text
func (Args) Epilogue() string {
	return `Examples:
  # Tail operations
  backtail tail app.log            # Last 10 lines, file order
  backtail tail -n 50 app.log      # Last 50 lines
  backtail tail -r app.log         # Newest line first

  # Interactive browsing
  backtail view app.log            # Pager starting at the end

  # History
  backtail history                 # Recently viewed files
  backtail history clear --force   # Wipe history without prompting

  # Configuration
  backtail config set tail-lines 25
  backtail config list

For more information, visit: https://github.com/velten/backtail`
}

// validConfigKeys are the keys accepted by 'config get' and 'config set'.
var validConfigKeys = map[string]bool{
	"tail-lines":       true,
	"chunk-size":       true,
	"history-limit":    true,
	"history-location": true,
}

// Validate performs validation on the parsed arguments
func (args *Args) Validate() error {
	if args.Tail != nil {
		return args.Tail.Validate()
	}
	if args.History != nil {
		return args.History.Validate()
	}
	if args.Config != nil {
		return args.Config.Validate()
	}
	return nil
}

// Validate validates tail command arguments
func (t *TailCmd) Validate() error {
	if t.Lines != nil && *t.Lines < 1 {
		return fmt.Errorf("line count must be positive")
	}
	if t.ChunkSize != nil && *t.ChunkSize < 16 {
		return fmt.Errorf("chunk size must be at least 16 bytes")
	}
	return nil
}

// Validate validates history command arguments
func (h *HistoryCmd) Validate() error {
	if h.Limit != nil && *h.Limit < 1 {
		return fmt.Errorf("limit must be positive")
	}
	return nil
}

// Validate validates config command arguments
func (c *ConfigCmd) Validate() error {
	count := 0
	if c.Get != nil {
		count++
	}
	if c.Set != nil {
		count++
	}
	if c.List != nil {
		count++
	}
	if count == 0 {
		return fmt.Errorf("config requires a subcommand: get, set, or list")
	}
	if count > 1 {
		return fmt.Errorf("config accepts only one subcommand at a time")
	}
	if c.Get != nil && !validConfigKeys[c.Get.Key] {
		return fmt.Errorf("unknown configuration key: %s", c.Get.Key)
	}
	if c.Set != nil && !validConfigKeys[c.Set.Key] {
		return fmt.Errorf("unknown configuration key: %s", c.Set.Key)
	}
	return nil
}
