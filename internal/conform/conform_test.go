package conform

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/conformalize/conformalize/internal/codec"
	"github.com/conformalize/conformalize/internal/config"
	"github.com/conformalize/conformalize/internal/document"
	"github.com/conformalize/conformalize/internal/edit"
	"github.com/conformalize/conformalize/internal/recipe"
)

func defaults() *config.Settings {
	return &config.Settings{PythonVersion: "3.14", RunVersionBump: true}
}

func run(t *testing.T, root string, s *config.Settings) *edit.ModificationSet {
	t.Helper()
	logger := zaptest.NewLogger(t)
	r := &Runner{Settings: s, Workspace: edit.NewWorkspace(root, logger), Logger: logger}
	mods, err := r.Run(context.Background())
	require.NoError(t, err)
	return mods
}

func TestRun_RuffInEmptyDirectory(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	s := defaults()
	s.Ruff = true

	mods := run(t, root, s)
	assert.Equal(t, []string{recipe.BumpversionFile, recipe.PreCommitConfigFile, recipe.RuffFile}, mods.Sorted())

	data, err := os.ReadFile(root + "/" + recipe.RuffFile)
	require.NoError(t, err)
	doc, err := codec.TOML.Decode(data)
	require.NoError(t, err)
	lint, ok := doc.Get("lint")
	require.True(t, ok)
	sel, _ := lint.(*document.Map).Get("select")
	assert.Subset(t, sel.(*document.Seq).Strings(), []string{"ALL", "RUF022", "RUF029"})
	ignore, _ := lint.(*document.Map).Get("ignore")
	assert.Contains(t, ignore.(*document.Seq).Strings(), "ANN401")

	assert.Equal(t, 0, run(t, root, s).Len())
}

func everything() *config.Settings {
	timeout := 600
	s := defaults()
	s.PythonVersion = "3.13"
	s.PackageName = "demo-pkg"
	s.RepoName = "demo"
	s.Description = "A demo package."
	s.Coverage = true
	s.Pyright = true
	s.Readme = true
	s.Ruff = true
	s.Envrc = config.EnvrcSettings{Enabled: true, UV: config.EnvrcUVSettings{Enabled: true, NativeTLS: true}}
	s.GitHub.PullRequest = config.PullRequestSettings{
		PreCommit: true,
		Pyright:   true,
		Ruff:      true,
		Pytest: config.PytestMatrix{
			AllVersions:   true,
			OS:            config.PytestOS{MacOS: true, Ubuntu: true},
			PythonVersion: config.PytestPythonVersion{Default: true},
			Resolution:    config.PytestResolution{Highest: true, LowestDirect: true},
		},
	}
	s.GitHub.Push = config.PushSettings{
		Publish: config.PublishSettings{TrustedPublishing: true},
		Tag:     config.TagSettings{Major: true, Latest: true},
	}
	s.PreCommit = config.PreCommitSettings{Dockerfmt: true, Dycw: true, Prettier: true, Ruff: true, Shell: true, Taplo: true, UV: true}
	s.Pyproject = config.PyprojectSettings{
		Enabled:                     true,
		OptionalDependenciesScripts: true,
		UVIndexes:                   []config.Index{{Name: "internal", URL: "https://pypi.example.com/simple"}},
	}
	s.Pytest = config.PytestSettings{Enabled: true, Asyncio: true, Timeout: &timeout}
	return s
}

func TestRun_EverythingIsIdempotent(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	s := everything()

	mods := run(t, root, s)
	assert.Equal(t, []string{
		recipe.BumpversionFile,
		recipe.CoveragercFile,
		recipe.EnvrcFile,
		recipe.PullRequestFile,
		recipe.PushFile,
		recipe.PreCommitConfigFile,
		recipe.ReadmeFile,
		recipe.PyprojectFile,
		recipe.PyrightconfigFile,
		recipe.PytestFile,
		recipe.RuffFile,
	}, mods.Sorted())

	assert.Equal(t, 0, run(t, root, s).Len())

	ws := edit.NewWorkspace(root, zaptest.NewLogger(t))
	require.NoError(t, CheckVersions(ws))
}

func TestRun_PytestMatrixUsesAllVersions(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	run(t, root, everything())

	data, err := os.ReadFile(root + "/" + recipe.PullRequestFile)
	require.NoError(t, err)
	doc, err := codec.YAML.Decode(data)
	require.NoError(t, err)
	jobs, _ := doc.Get("jobs")
	pytest, _ := jobs.(*document.Map).Get("pytest")
	strategy, _ := pytest.(*document.Map).Get("strategy")
	matrix, _ := strategy.(*document.Map).Get("matrix")
	versions, _ := matrix.(*document.Map).Get("python-version")
	assert.Equal(t, []string{"3.13", "3.14"}, versions.(*document.Seq).Strings())
	minutes, _ := pytest.(*document.Map).Get("timeout-minutes")
	assert.Equal(t, int64(10), minutes)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	logger := zaptest.NewLogger(t)
	ws := edit.NewWorkspace(root, logger)
	ws.DryRun = true
	s := defaults()
	s.Ruff = true
	s.Pyright = true

	mods, err := (&Runner{Settings: s, Workspace: ws, Logger: logger}).Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, mods.Sorted(), recipe.RuffFile)
	assert.Contains(t, mods.Sorted(), recipe.PyrightconfigFile)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_LogsSummary(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	s := defaults()
	s.Readme = true
	s.RepoName = "demo"

	r := &Runner{Settings: s, Workspace: edit.NewWorkspace(t.TempDir(), logger), Logger: logger}
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	summary := logs.FilterMessage("Exiting due to modifications: .bumpversion.toml, .pre-commit-config.yaml, README.md")
	assert.Equal(t, 1, summary.Len())
}

func TestRun_StopsOnError(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(root+"/"+recipe.RuffFile, []byte("lint = 1\n"), 0o644))
	s := defaults()
	s.Ruff = true

	logger := zaptest.NewLogger(t)
	r := &Runner{Settings: s, Workspace: edit.NewWorkspace(root, logger), Logger: logger}
	_, err := r.Run(context.Background())
	require.ErrorIs(t, err, document.ErrTypeMismatch)
	assert.Contains(t, err.Error(), "ruff: ")
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ws := edit.NewWorkspace(t.TempDir(), zaptest.NewLogger(t))
	mods, err := (&Runner{Settings: defaults(), Workspace: ws}).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, mods.Len())
}

func TestRun_SkipsVersionBumpInTemplates(t *testing.T) {
	t.Parallel()
	root := t.TempDir() + "/python-template"
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.WriteFile(root+"/"+recipe.BumpversionFile, []byte("[tool.bumpversion]\nallow_dirty = true\ncurrent_version = \"0.7.0\"\n"), 0o644))

	mods := run(t, root, defaults())
	assert.Equal(t, []string{recipe.PreCommitConfigFile}, mods.Sorted())
}

func TestPytestJob(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		matrix  config.PytestMatrix
		version string
		want    *recipe.PytestJob
		wantErr bool
	}{
		"explicit versions": {
			matrix: config.PytestMatrix{
				OS:            config.PytestOS{Windows: true, MacOS: true, Ubuntu: true},
				PythonVersion: config.PytestPythonVersion{Default: true, V312: true, V314: true},
				Resolution:    config.PytestResolution{LowestDirect: true},
			},
			version: "3.12",
			want: &recipe.PytestJob{
				OS:             []string{"windows-latest", "macos-latest", "ubuntu-latest"},
				PythonVersions: []string{"3.12", "3.14"},
				Resolutions:    []string{"lowest-direct"},
			},
		},
		"all versions": {
			matrix:  config.PytestMatrix{AllVersions: true, PythonVersion: config.PytestPythonVersion{V314: true}},
			version: "3.12",
			want:    &recipe.PytestJob{PythonVersions: []string{"3.14", "3.12", "3.13"}},
		},
		"all versions from an unsupported version": {
			matrix:  config.PytestMatrix{AllVersions: true},
			version: "3.15",
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := pytestJob(tt.matrix, tt.version, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
