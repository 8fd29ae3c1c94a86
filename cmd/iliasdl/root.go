// Package main provides the entry point for the iliasdl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for iliasdl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iliasdl",
		Short: "Mirror an ILIAS course platform to a local directory",
		Long: `iliasdl logs into an ILIAS e-learning instance and mirrors the
account's courses to a local directory tree: folders, files, forum
threads, and lecture videos.

Re-running the same command updates the mirror; existing files are
skipped unless --force is given.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (-v info, -vv debug)")

	// Add subcommands
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
