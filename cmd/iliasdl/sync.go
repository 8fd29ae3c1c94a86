package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/campus-tools/iliasdl/internal/config"
	"github.com/campus-tools/iliasdl/internal/ilias"
	"github.com/campus-tools/iliasdl/internal/journal"
	"github.com/campus-tools/iliasdl/internal/log"
	"github.com/campus-tools/iliasdl/internal/report"
	"github.com/campus-tools/iliasdl/internal/sync"
)

// NewSyncCmd creates the sync command.
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror the account's courses to a local directory",
		Long: `Sync logs in, walks every course on the personal desktop, and mirrors
its content below the output directory.

Files that already exist locally are skipped, so re-running the same
command is cheap. Forum threads are only fetched with --forum; videos
are fetched unless --no-videos is given.

Examples:
  # Mirror everything into ~/ilias with 4 parallel downloads
  iliasdl sync -o ~/ilias -U uabcd -j 4

  # Include forums, skip videos
  iliasdl sync -o ~/ilias -U uabcd -t --no-videos

  # Use the hierarchical content tree instead of the flat listing
  iliasdl sync -o ~/ilias -U uabcd --content-tree

  # Write a Markdown run report
  iliasdl sync -o ~/ilias -U uabcd --report run.md`,
		Args: cobra.NoArgs,
		RunE: runSyncCmd,
	}

	// Selection flags
	cmd.Flags().Bool("skip-files", false, "Do not download files")
	cmd.Flags().Bool("no-videos", false, "Do not download lecture videos")
	cmd.Flags().BoolP("forum", "t", false, "Download forum threads")
	cmd.Flags().BoolP("force", "f", false, "Re-download files that already exist")
	cmd.Flags().Bool("content-tree", false,
		"Use the content tree view (experimental, more complete for some courses)")

	// Destination and concurrency
	cmd.Flags().StringP("output", "o", "", "Output directory for the mirror")
	cmd.Flags().IntP("jobs", "j", config.DefaultJobs, "Number of parallel download tasks")

	// Account and instance
	cmd.Flags().StringP("user", "U", "", "Account name for the Shibboleth login")
	cmd.Flags().String("password", "", "Account password (prompted when omitted)")
	cmd.Flags().String("service", config.DefaultServiceURL, "Base URL of the ILIAS instance")

	// Reporting and configuration file
	cmd.Flags().String("report", "", "Write a Markdown run report to this path")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: "+config.DefaultConfigFile+" in current or home directory)")

	return cmd
}

// runSyncCmd executes the sync command.
func runSyncCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.New(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	if cfg.Password == "" {
		cfg.Password, err = promptPassword(cmd)
		if err != nil {
			return err
		}
	}

	// An interrupt cancels the run; queued tasks drain without starting.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return runSync(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags and the optional
// configuration file. Flags always win over file values.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.SkipFiles, err = cmd.Flags().GetBool("skip-files")
	if err != nil {
		return nil, err
	}
	cfg.NoVideos, err = cmd.Flags().GetBool("no-videos")
	if err != nil {
		return nil, err
	}
	cfg.Forum, err = cmd.Flags().GetBool("forum")
	if err != nil {
		return nil, err
	}
	cfg.Force, err = cmd.Flags().GetBool("force")
	if err != nil {
		return nil, err
	}
	cfg.ContentTree, err = cmd.Flags().GetBool("content-tree")
	if err != nil {
		return nil, err
	}
	cfg.OutputRoot, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	cfg.Jobs, err = cmd.Flags().GetInt("jobs")
	if err != nil {
		return nil, err
	}
	cfg.User, err = cmd.Flags().GetString("user")
	if err != nil {
		return nil, err
	}
	cfg.Password, err = cmd.Flags().GetString("password")
	if err != nil {
		return nil, err
	}
	cfg.ServiceURL, err = cmd.Flags().GetString("service")
	if err != nil {
		return nil, err
	}
	cfg.ReportPath, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	// The verbose flag lives on the root command; a detached sync command
	// (tests) has none.
	if count, err := cmd.Root().PersistentFlags().GetCount("verbose"); err == nil {
		cfg.Verbose = count
	}

	// Fill unset values from the configuration file. An explicitly given
	// file must exist; the default search is best-effort.
	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case path != "":
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cfg.Apply(file)
	case explicit:
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	return cfg, nil
}

// promptPassword reads the password from the command's input stream. On a
// terminal the read suppresses echo; piped input (tests, scripts) falls
// back to a plain line read. The answer never appears in logs: the secure
// log handler masks password attributes, and the value itself is only
// handed to the login form.
func promptPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")

	var pass string
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		pass = string(raw)
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		pass = strings.TrimRight(line, "\r\n")
	}

	if pass == "" {
		return "", fmt.Errorf("empty password")
	}
	return pass, nil
}

// runSync executes the mirror run.
func runSync(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client, err := ilias.NewClient(cfg.ServiceURL, ilias.WithLogger(logger))
	if err != nil {
		return err
	}

	// Login failures are the only fatal error class of a run.
	if err := client.Login(ctx, cfg.User, cfg.Password, ilias.DefaultLoginParams(client.ServiceURL())); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	logger.Info("logged in", "user", cfg.User)

	// The journal is best-effort history: a run proceeds without one.
	opts := []sync.Option{sync.WithLogger(logger)}
	var jnl *journal.Journal
	var runID int64
	if j, err := journal.Open(config.StateDir()); err != nil {
		logger.Warn("continuing without journal", "error", err)
	} else {
		defer j.Close()
		if id, err := j.BeginRun(ctx, cfg.OutputRoot); err != nil {
			logger.Warn("continuing without journal", "error", err)
		} else {
			jnl, runID = j, id
			opts = append(opts, sync.WithJournal(j, id))
		}
	}

	if cfg.ContentTree {
		// The tree endpoint only answers while the session is in tree
		// mode; restore flat mode afterwards so the web UI stays usable.
		client.SetContentTreeMode(ctx, true)
		defer client.SetContentTreeMode(context.WithoutCancel(ctx), false)
	}

	syncer := sync.New(client, cfg, opts...)
	if err := syncer.SeedDashboard(ctx); err != nil {
		return fmt.Errorf("failed to list personal desktop: %w", err)
	}
	syncer.Wait()
	logger.Info("sync finished", "output", cfg.OutputRoot)

	if jnl != nil {
		if err := jnl.FinishRun(ctx, runID); err != nil {
			logger.Warn("failed to finish journal run", "error", err)
		}
		if cfg.ReportPath != "" {
			if err := writeReport(ctx, jnl, runID, cfg.ReportPath); err != nil {
				logger.Error("failed to write report", "path", cfg.ReportPath, "error", err)
			}
		}
	} else if cfg.ReportPath != "" {
		logger.Warn("no journal, skipping report", "path", cfg.ReportPath)
	}

	return nil
}

// writeReport renders the Markdown run report next to the mirror.
func writeReport(ctx context.Context, jnl *journal.Journal, runID int64, path string) error {
	summary, err := jnl.Summarize(ctx, runID)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return report.NewWriter(f).Write(summary)
}
