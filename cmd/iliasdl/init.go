package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/campus-tools/iliasdl/internal/config"
)

//go:embed templates/iliasdl.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter iliasdl configuration file",
		Long: `Init creates a new ` + config.DefaultConfigFile + ` configuration file in the
current directory.

The generated file includes commented examples for the account name,
service URL, output directory, and job limit. Flags given to
"iliasdl sync" always override values from the file.

Examples:
  # Create ` + config.DefaultConfigFile + ` in the current directory
  iliasdl init

  # Create the config file at a specific path
  iliasdl init -o myconfig.yaml

  # Force overwrite an existing file
  iliasdl init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/iliasdl.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// The file may hold an account name; keep it owner-readable only.
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to set defaults such as:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Account name and service URL")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Output directory")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Parallel download jobs")

	return nil
}
