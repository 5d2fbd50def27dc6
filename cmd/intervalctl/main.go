// Package main provides the entry point for the intervalctl CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/henderiw/intervaltree/cmd/intervalctl/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
