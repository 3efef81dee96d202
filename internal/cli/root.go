// Package cli implements the conformalize command line.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	clierrors "github.com/conformalize/conformalize/internal/errors"
)

const (
	groupConfiguration = "configuration"
	groupInfo          = "info"
)

// rootOptions holds the global flags.
type rootOptions struct {
	dir     string
	config  string
	verbose bool
	dryRun  bool
	watch   bool
}

var (
	opts rootOptions

	// logger is built in PersistentPreRunE and shared by every subcommand.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "conformalize",
	Short: "Keep a Python repository's configuration files conformant",
	Long: `conformalize merges a fixed set of required entries into the configuration
files of a Python repository (pyproject.toml, ruff.toml, .pre-commit-config.yaml,
GitHub workflows, .envrc and friends) without disturbing anything else in them.

Which files are managed is decided by .conformalize.yaml in the project root.
Every run is idempotent: a second run over its own output changes nothing.

Exit status is 0 when every file already conformed, 1 when files were written,
2 on failure and 3 on invalid arguments or settings.`,
	Example: `  # Conform the current directory
  conformalize

  # Show what would change without writing
  conformalize --dry-run

  # Re-run whenever the settings file changes
  conformalize --watch --verbose`,
	Args:          noArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(cmd.ErrOrStderr(), opts.verbose)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runRoot,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupConfiguration, Title: "Configuration:"},
		&cobra.Group{ID: groupInfo, Title: "Information:"},
	)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.dir, "dir", "d", ".", "Project root to conform")
	flags.StringVarP(&opts.config, "config", "c", "", "Settings file (default: <dir>/.conformalize.yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every step")
	flags.BoolVarP(&opts.dryRun, "dry-run", "n", false, "Report the files that would change without writing them")
	rootCmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-run whenever the settings file changes")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return argumentError(cmd, err)
	})
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return exitCode(rootCmd.ExecuteContext(ctx), stderr)
}

func argumentError(cmd *cobra.Command, err error) error {
	return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
		"Run '"+cmd.CommandPath()+" --help' for usage")
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return argumentError(cmd, err)
	}
	return nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return argumentError(cmd, err)
		}
		return nil
	}
}
