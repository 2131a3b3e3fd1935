package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/velten/backtail/internal/history"
	"github.com/velten/backtail/internal/store/memstore"
	"github.com/velten/backtail/revline"
)

func main() {
	fmt.Println("backtail Reverse Scanner Demo")

	// Build a small fake log in memory
	logLines := []string{
		"2026-08-31T10:00:01Z INFO  server starting on :8080",
		"2026-08-31T10:00:02Z INFO  connected to database",
		"2026-08-31T10:03:17Z WARN  slow query took 1.8s",
		"2026-08-31T10:05:42Z INFO  handled 1000 requests",
		"2026-08-31T10:07:09Z ERROR upstream timeout on /api/users",
		"2026-08-31T10:07:10Z INFO  retrying upstream request",
		"2026-08-31T10:07:11Z INFO  upstream recovered",
	}
	content := strings.Join(logLines, "\n") + "\n"

	// Scan the log backward, newest line first
	scanner, err := revline.New(revline.NewBytesSource([]byte(content)))
	if err != nil {
		log.Fatalf("Failed to create scanner: %v", err)
	}

	fmt.Printf("\nLog is %d bytes, reading from the end:\n", len(content))
	count := 0
	for {
		line, err := scanner.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Fatalf("Failed to read line: %v", err)
		}
		count++
		fmt.Printf("%d. %s\n", count, line)
	}
	fmt.Printf("\nRead %d lines without touching the start of the log first.\n", count)

	// Same thing through the lazy iterator, stopping at the first error line
	fmt.Println("\nNewest ERROR line via the lazy iterator:")
	scanner, err = revline.New(revline.NewBytesSource([]byte(content)))
	if err != nil {
		log.Fatalf("Failed to create scanner: %v", err)
	}
	for line, err := range scanner.Lines() {
		if err != nil {
			log.Fatalf("Failed to read line: %v", err)
		}
		if strings.Contains(line, "ERROR") {
			fmt.Printf("  %s\n", line)
			break
		}
	}

	// Record the view in an in-memory history store
	manager, err := history.NewManager(memstore.NewMemoryStore())
	if err != nil {
		log.Fatalf("Failed to create history manager: %v", err)
	}
	defer manager.Close()

	if _, err := manager.Touch("demo.log", count, int64(len(content))); err != nil {
		log.Fatalf("Failed to record view: %v", err)
	}

	entries, err := manager.List(0)
	if err != nil {
		log.Fatalf("Failed to list history: %v", err)
	}
	fmt.Println("\nHistory after the demo view:")
	for _, entry := range entries {
		fmt.Printf("  [%s] %s (%d lines, %d bytes)\n",
			entry.ViewedAt.Format("15:04:05"), entry.Path, entry.Lines, entry.Size)
	}

	fmt.Printf("\nDemo complete! (Using in-memory store)\n")
}
