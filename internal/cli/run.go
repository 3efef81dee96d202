package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/blang/semver/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conformalize/conformalize/internal/config"
	"github.com/conformalize/conformalize/internal/conform"
	"github.com/conformalize/conformalize/internal/edit"
	clierrors "github.com/conformalize/conformalize/internal/errors"
	"github.com/conformalize/conformalize/internal/git"
	"github.com/conformalize/conformalize/internal/output"
	"github.com/conformalize/conformalize/internal/progress"
)

func runRoot(cmd *cobra.Command, _ []string) error {
	dir, err := projectDir()
	if err != nil {
		return err
	}
	if opts.watch {
		return watch(cmd.Context(), cmd, dir)
	}

	mods, err := conformOnce(cmd.Context(), cmd, dir)
	if err != nil {
		return err
	}
	if mods.Len() > 0 {
		return &modifiedError{paths: mods.Sorted()}
	}
	return nil
}

// projectDir resolves --dir to an absolute directory.
func projectDir() (string, error) {
	dir, err := filepath.Abs(opts.dir)
	if err != nil {
		return "", clierrors.DirectoryNotFound(opts.dir)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", clierrors.DirectoryNotFound(opts.dir)
	}
	return dir, nil
}

// loadSettings loads the settings for dir, honouring --config.
func loadSettings(cmd *cobra.Command, dir string) (*config.Settings, error) {
	if opts.config != "" {
		if _, err := os.Stat(opts.config); err != nil {
			return nil, clierrors.ConfigFileNotFound(opts.config)
		}
	}
	settings, err := config.LoadWithOptions(config.LoadOptions{
		Dir:           dir,
		ConfigPath:    opts.config,
		WarningWriter: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.ConfigInvalid(err)
	}
	return settings, nil
}

// conformOnce loads the settings and runs every selected recipe once,
// printing the files that changed.
func conformOnce(ctx context.Context, cmd *cobra.Command, dir string) (*edit.ModificationSet, error) {
	settings, err := loadSettings(cmd, dir)
	if err != nil {
		return nil, err
	}

	ws := edit.NewWorkspace(dir, logger)
	ws.DryRun = opts.dryRun
	runner := &conform.Runner{
		Settings:  settings,
		Workspace: ws,
		Logger:    logger,
		History:   openHistory(dir, cmd.ErrOrStderr()),
	}

	mods, err := runner.Run(ctx)
	if err != nil {
		return mods, err
	}
	if mods.Len() > 0 {
		output.PrintModified(cmd.OutOrStdout(), mods.Sorted(), ws.DryRun)
	} else {
		output.PrintClean(cmd.OutOrStdout())
	}
	return mods, nil
}

// openHistory returns the git history of dir, or nil when dir is not inside
// a repository. On a terminal each lookup shows a spinner.
func openHistory(dir string, stderr io.Writer) conform.History {
	if !git.IsGitRepository(dir) {
		logger.Debug("not a git repository; version history unavailable", zap.String("dir", dir))
		return nil
	}
	repo, err := git.Open(dir, logger)
	if err != nil {
		logger.Warn("opening git repository", zap.Error(err))
		return nil
	}
	caps := terminalCapabilities(stderr)
	if !caps.IsTTY {
		return repo
	}
	return &spinningHistory{history: repo, out: stderr, caps: caps}
}

// spinningHistory shows a spinner while each git lookup runs.
type spinningHistory struct {
	history conform.History
	out     io.Writer
	caps    progress.TerminalCapabilities
}

func (h *spinningHistory) TagVersionAt(rev string) (semver.Version, error) {
	sp := progress.Start(h.out, h.caps, "Reading version tags at "+rev)
	v, err := h.history.TagVersionAt(rev)
	sp.Stop(err == nil || errors.Is(err, git.ErrNoVersion))
	return v, err
}

func (h *spinningHistory) FileAt(rev, path string) (string, error) {
	sp := progress.Start(h.out, h.caps, "Reading "+path+" at "+rev)
	text, err := h.history.FileAt(rev, path)
	sp.Stop(err == nil)
	return text, err
}

// watch runs once and then again whenever the settings file changes, until
// ctx is cancelled.
func watch(ctx context.Context, cmd *cobra.Command, dir string) error {
	settingsDir := dir
	names := []string{config.ProjectConfigFile, config.LegacyProjectConfigFile}
	if opts.config != "" {
		abs, err := filepath.Abs(opts.config)
		if err != nil {
			return clierrors.ConfigFileNotFound(opts.config)
		}
		settingsDir, names = filepath.Dir(abs), []string{filepath.Base(abs)}
	}

	w, err := conform.NewWatcher(settingsDir, names, logger)
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "cannot watch settings",
			"Check that "+settingsDir+" exists and is readable")
	}
	defer w.Close()

	runs := 0
	logger.Info("Watching settings; press Ctrl-C to stop", zap.Strings("files", names))
	return w.Watch(ctx, func(ctx context.Context) error {
		if runs > 0 {
			output.PrintSeparator(cmd.OutOrStdout(), "settings changed")
		}
		runs++
		_, err := conformOnce(ctx, cmd, dir)
		return err
	})
}
