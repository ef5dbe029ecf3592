// Package main provides the CLI entry point for the task report generator
// This tool provides two commands:
// 1. generate - Fetch users and tasks and write one report file per user
// 2. query - Inspect current and archived reports with read-only SQL
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"task-reports/internal/commands"
)

func main() {
	// Root command defines the base command when called without any subcommands
	var rootCmd = &cobra.Command{
		Use:   "task-reports",
		Short: "Generate per-user task reports from a remote todo API",
		Long: `Task Reports fetches users and their tasks from two JSON endpoints and writes
one plain-text report per user, listing completed and remaining tasks.

Previous reports are kept: before a report is regenerated it is renamed with the
date found in its header, and restored if the new report cannot be written.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewQueryCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
