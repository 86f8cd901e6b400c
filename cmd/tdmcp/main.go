// Package main provides the entry point for the tdmcp CLI.
package main

import (
	"os"

	"github.com/touchdocs/tdmcp/cmd/tdmcp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
