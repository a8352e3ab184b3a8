// Package main is the entry point for the mcpbridge CLI.
package main

import (
	"os"

	"github.com/thoreinstein/mcpbridge/cmd/mcpbridge/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(commands.Report(os.Stderr, err))
	}
}
