package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/velten/backtail/internal/clipboard/mockboard"
	"github.com/velten/backtail/internal/config"
	"github.com/velten/backtail/internal/history"
	"github.com/velten/backtail/internal/store/dbstore"
	"github.com/velten/backtail/internal/tui"
	"github.com/velten/backtail/revline"
)

func main() {
	fmt.Println("Testing backtail End to End")
	fmt.Println("===========================")

	workDir, err := os.MkdirTemp("", "backtail-integration-*")
	if err != nil {
		log.Fatalf("Error creating work directory: %v", err)
	}
	defer os.RemoveAll(workDir)

	// Write a log file large enough to need several read windows
	logPath := filepath.Join(workDir, "app.log")
	var b strings.Builder
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&b, "entry %03d lorem ipsum dolor sit amet\n", i)
	}
	if err := os.WriteFile(logPath, []byte(b.String()), 0644); err != nil {
		log.Fatalf("Error writing log file: %v", err)
	}
	fmt.Printf("Wrote %d bytes to %s\n", b.Len(), logPath)

	// Scan it backward with a deliberately small window
	file, err := os.Open(logPath)
	if err != nil {
		log.Fatalf("Error opening log file: %v", err)
	}
	defer file.Close()

	src, err := revline.NewFileSource(file)
	if err != nil {
		log.Fatalf("Error creating source: %v", err)
	}
	scanner, err := revline.NewWithChunkSize(src, 64)
	if err != nil {
		log.Fatalf("Error creating scanner: %v", err)
	}

	var lastTen []string
	for i := 0; i < 10; i++ {
		line, err := scanner.Next()
		if err != nil {
			log.Fatalf("Error reading line %d: %v", i, err)
		}
		lastTen = append(lastTen, line)
	}

	fmt.Println("\nLast 10 lines, newest first:")
	for i, line := range lastTen {
		fmt.Printf("  %2d: %s\n", i, line)
	}
	if lastTen[0] != "entry 499 lorem ipsum dolor sit amet" {
		log.Fatalf("Wrong newest line: %q", lastTen[0])
	}
	if lastTen[9] != "entry 490 lorem ipsum dolor sit amet" {
		log.Fatalf("Wrong tenth line: %q", lastTen[9])
	}
	fmt.Println("Backward scan matches the file tail!")

	// Drive the pager model over the same file
	pagerFile, err := os.Open(logPath)
	if err != nil {
		log.Fatalf("Error reopening log file: %v", err)
	}
	defer pagerFile.Close()

	pagerSrc, err := revline.NewFileSource(pagerFile)
	if err != nil {
		log.Fatalf("Error creating pager source: %v", err)
	}
	pagerScanner, err := revline.New(pagerSrc)
	if err != nil {
		log.Fatalf("Error creating pager scanner: %v", err)
	}

	model := tui.NewModel("app.log", pagerScanner, mockboard.New())
	model.Update(tea.WindowSizeMsg{Width: 100, Height: 20})

	view := model.View()
	if !strings.Contains(view, "app.log") {
		log.Fatalf("Pager view missing file name:\n%s", view)
	}
	if !strings.Contains(view, "entry 499") {
		log.Fatalf("Pager view missing newest entry:\n%s", view)
	}
	fmt.Printf("\nPager renders the file end (%d lines loaded)\n", model.LineCount())

	// Scroll up a few pages and confirm older lines get pulled in
	before := model.LineCount()
	for i := 0; i < 5; i++ {
		model.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	}
	fmt.Printf("After scrolling up: %d -> %d lines loaded\n", before, model.LineCount())

	// Record the view in a SQLite-backed history
	dbPath := filepath.Join(workDir, "backtail.db")
	store, err := dbstore.NewSQLiteStore(dbPath)
	if err != nil {
		log.Fatalf("Error opening history database: %v", err)
	}
	manager, err := history.NewManager(store)
	if err != nil {
		log.Fatalf("Error creating history manager: %v", err)
	}
	defer manager.Close()

	size, _ := src.Len()
	if _, err := manager.Touch(logPath, model.LineCount(), size); err != nil {
		log.Fatalf("Error recording view: %v", err)
	}
	entries, err := manager.List(0)
	if err != nil {
		log.Fatalf("Error listing history: %v", err)
	}
	if len(entries) != 1 {
		log.Fatalf("Expected 1 history entry, got %d", len(entries))
	}
	fmt.Printf("\nHistory recorded: %s (%d lines, %d bytes)\n",
		entries[0].Path, entries[0].Lines, entries[0].Size)

	// Round-trip the configuration file
	configManager := config.NewConfigManagerWithPath(filepath.Join(workDir, "config.yaml"))
	if err := configManager.Update("tail-lines", "25"); err != nil {
		log.Fatalf("Error updating config: %v", err)
	}
	value, err := configManager.Get("tail-lines")
	if err != nil {
		log.Fatalf("Error reading config: %v", err)
	}
	if value != "25" {
		log.Fatalf("Config round trip failed: got %q, want 25", value)
	}
	fmt.Println("Config round trip succeeded")

	fmt.Println("\nEnd-to-end verification complete!")
}
