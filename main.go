// ABOUTME: Entry point for the cleancontacts CLI, TUI, and MCP server
// ABOUTME: Loads .env overrides and hands off to the cobra command tree
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/cleancontacts/cli"
	"github.com/joho/godotenv"
)

const version = "0.1.0"

func main() {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	if err := cli.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}
