package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildMetadata describes the binary being run.
type buildMetadata struct {
	version string
	commit  string
	date    string
}

// resolveBuildMetadata merges the ldflags values with what the Go
// toolchain embedded. Per field, ldflags win, then the module build
// info, then a placeholder for local `go build` binaries.
func resolveBuildMetadata() buildMetadata {
	meta := buildMetadata{
		version: version,
		commit:  commit,
		date:    date,
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if meta.version == "" {
			meta.version = info.Main.Version
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if meta.commit == "" {
					meta.commit = setting.Value
					if len(meta.commit) > 7 {
						meta.commit = meta.commit[:7]
					}
				}
			case "vcs.time":
				if meta.date == "" {
					meta.date = setting.Value
				}
			}
		}
	}

	if meta.version == "" {
		meta.version = "(devel)"
	}
	if meta.commit == "" {
		meta.commit = "unknown"
	}
	if meta.date == "" {
		meta.date = "unknown"
	}
	return meta
}

// getVersion returns the version string shown by --version.
func getVersion() string {
	return resolveBuildMetadata().version
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of iliasdl.`,
		Run: func(cmd *cobra.Command, _ []string) {
			meta := resolveBuildMetadata()
			fmt.Fprintf(cmd.OutOrStdout(), "iliasdl version %s\n", meta.version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", meta.commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", meta.date)
		},
	}
}
