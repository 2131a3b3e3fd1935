package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/velten/backtail/internal/cli"
)

func main() {
	// Parse command-line arguments
	var args cli.Args
	parser := arg.MustParse(&args)

	// No subcommand: print usage rather than guessing intent
	if args.Tail == nil && args.View == nil && args.History == nil && args.Config == nil {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}

	// Create CLI instance with args for database location support
	cliHandler, err := cli.NewWithArgs(&args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer cliHandler.Close()

	// Execute the command
	if err := cliHandler.Execute(&args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
