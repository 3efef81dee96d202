package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Note: these tests cannot run in parallel because they use the global
// rootCmd and its flag variables.

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	color.NoColor = true
	opts = rootOptions{dir: "."}
	logger = zap.NewNop()
	configInitForce, configMigrateRemove, versionPlain = false, false, false

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "conformalize", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Example)
	assert.NotEmpty(t, rootCmd.Groups())
}

func TestRootCmd_Flags(t *testing.T) {
	tests := map[string]struct {
		persistent bool
	}{
		"dir":     {persistent: true},
		"config":  {persistent: true},
		"verbose": {persistent: true},
		"dry-run": {persistent: true},
		"watch":   {persistent: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if tt.persistent {
				assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name))
			} else {
				assert.NotNil(t, rootCmd.Flags().Lookup(name))
			}
		})
	}
}

func TestExecute_ConformsThenIsClean(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".conformalize.yaml", "ruff: true\n")

	first := run(t, "--dir", dir)
	assert.Equal(t, ExitModified, first.code, first.stderr)
	assert.Contains(t, first.stdout, "Modified 3 file(s):")
	assert.Contains(t, first.stdout, "ruff.toml")
	assert.Contains(t, first.stderr, "Exiting due to modifications: .bumpversion.toml, .pre-commit-config.yaml, ruff.toml")
	assert.FileExists(t, filepath.Join(dir, "ruff.toml"))

	second := run(t, "--dir", dir)
	assert.Equal(t, ExitSuccess, second.code, second.stderr)
	assert.Contains(t, second.stdout, "All files conform")
}

func TestExecute_DryRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".conformalize.yaml", "readme: true\nrepo_name: demo\n")

	res := run(t, "--dir", dir, "--dry-run")
	assert.Equal(t, ExitModified, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Would modify")
	assert.Contains(t, res.stdout, "README.md")
	assert.NoFileExists(t, filepath.Join(dir, "README.md"))
	assert.NoFileExists(t, filepath.Join(dir, ".bumpversion.toml"))
}

func TestExecute_ExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(t.TempDir(), "settings.yaml")
	writeFile(t, filepath.Dir(settings), "settings.yaml", "coverage: true\n")

	res := run(t, "--dir", dir, "--config", settings)
	assert.Equal(t, ExitModified, res.code, res.stderr)
	assert.FileExists(t, filepath.Join(dir, ".coveragerc.toml"))
}

func TestExecute_Failures(t *testing.T) {
	tests := map[string]struct {
		setup      func(t *testing.T, dir string)
		args       func(dir string) []string
		wantCode   int
		wantStderr string
	}{
		"unknown flag": {
			args:       func(dir string) []string { return []string{"--nope"} },
			wantCode:   ExitInvalidArguments,
			wantStderr: "Argument Error",
		},
		"positional argument": {
			args:       func(dir string) []string { return []string{"--dir", dir, "extra"} },
			wantCode:   ExitInvalidArguments,
			wantStderr: "unknown command",
		},
		"missing directory": {
			args:       func(dir string) []string { return []string{"--dir", filepath.Join(dir, "missing")} },
			wantCode:   ExitInvalidArguments,
			wantStderr: "directory not found",
		},
		"missing config file": {
			args:       func(dir string) []string { return []string{"--dir", dir, "--config", filepath.Join(dir, "none.yaml")} },
			wantCode:   ExitInvalidArguments,
			wantStderr: "settings file not found",
		},
		"invalid settings": {
			setup: func(t *testing.T, dir string) {
				writeFile(t, dir, ".conformalize.yaml", "python_version: three\n")
			},
			args:       func(dir string) []string { return []string{"--dir", dir} },
			wantCode:   ExitInvalidArguments,
			wantStderr: "Configuration Error",
		},
		"unmergeable file": {
			setup: func(t *testing.T, dir string) {
				writeFile(t, dir, ".conformalize.yaml", "ruff: true\n")
				writeFile(t, dir, "ruff.toml", "lint = 1\n")
			},
			args:       func(dir string) []string { return []string{"--dir", dir} },
			wantCode:   ExitFatal,
			wantStderr: "Document Error",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.setup != nil {
				tt.setup(t, dir)
			}
			res := run(t, tt.args(dir)...)
			assert.Equal(t, tt.wantCode, res.code)
			assert.Contains(t, res.stderr, tt.wantStderr)
		})
	}
}

func TestExecute_Cancelled(t *testing.T) {
	dir := t.TempDir()
	color.NoColor = true
	opts = rootOptions{dir: "."}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var stdout, stderr bytes.Buffer
	code := execute(ctx, []string{"--dir", dir}, &stdout, &stderr)
	assert.Equal(t, ExitFatal, code)
	assert.Contains(t, stderr.String(), "context canceled")
	assert.NoFileExists(t, filepath.Join(dir, ".bumpversion.toml"))
}

func TestVersionCmd(t *testing.T) {
	res := run(t, "version", "--plain")
	assert.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "conformalize dev\n")
	assert.Contains(t, res.stdout, "commit: unknown\n")

	res = run(t, "v")
	assert.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "https://github.com/conformalize/conformalize")
}

func TestTruncateCommit(t *testing.T) {
	tests := map[string]struct {
		commit string
		want   string
	}{
		"full hash":  {commit: "0123456789abcdef", want: "0123456"},
		"short hash": {commit: "abc", want: "abc"},
		"unknown":    {commit: "unknown", want: "unknown"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateCommit(tt.commit))
		})
	}
}
