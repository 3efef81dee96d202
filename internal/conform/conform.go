// Package conform runs every recipe selected by the settings against a
// project, in a fixed order, and reports which files changed.
package conform

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/conformalize/conformalize/internal/config"
	"github.com/conformalize/conformalize/internal/edit"
	"github.com/conformalize/conformalize/internal/recipe"
)

// Runner applies the recipes selected by Settings to Workspace.
type Runner struct {
	Settings  *config.Settings
	Workspace *edit.Workspace
	Logger    *zap.Logger
	// History is nil when the project is not a git repository.
	History History
}

type step struct {
	name string
	run  func() error
}

// Run applies every selected recipe and returns the files that were (or in
// a dry run would be) modified. It stops at the first error; files written
// before it stay written.
func (r *Runner) Run(ctx context.Context) (*edit.ModificationSet, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := r.Settings
	ws := r.Workspace

	for _, st := range r.steps() {
		if err := ctx.Err(); err != nil {
			return ws.Mods, err
		}
		logger.Debug("running step", zap.String("step", st.name))
		if err := st.run(); err != nil {
			return ws.Mods, fmt.Errorf("%s: %w", st.name, err)
		}
	}

	if ws.Mods.Len() > 0 {
		logger.Info("Exiting due to modifications: "+ws.Mods.String(),
			zap.Int("count", ws.Mods.Len()), zap.Bool("dry_run", ws.DryRun))
	} else {
		logger.Debug("nothing to do", zap.String("python_version", s.PythonVersion))
	}
	return ws.Mods, nil
}

func (r *Runner) steps() []step {
	s := r.Settings
	ws := r.Workspace

	when := func(cond bool, name string, fn func() error) []step {
		if !cond {
			return nil
		}
		return []step{{name, fn}}
	}
	state := func(fn func() (edit.State, error)) func() error {
		return func() error {
			_, err := fn()
			return err
		}
	}

	var steps []step
	steps = append(steps,
		step{"bumpversion", state(func() (edit.State, error) {
			return recipe.BumpversionTOML(ws, recipe.BumpversionOptions{
				Pyproject:         s.PyprojectEnabled(),
				PythonPackageName: s.PythonPackageNameUse(),
			})
		})},
		step{"check versions", func() error { return CheckVersions(ws) }},
		step{"requires-python", func() error { return recipe.UpdateScriptRequiresPython(ws, s.PythonVersion) }},
		step{"workflow extensions", func() error { return recipe.UpdateActionFileExtensions(ws) }},
		step{"action versions", func() error { return recipe.UpdateActionVersions(ws) }},
		step{"pre-commit", state(func() (edit.State, error) {
			return recipe.PreCommitConfigYAML(ws, recipe.PreCommitOptions{
				Dockerfmt: s.PreCommit.Dockerfmt,
				Dycw:      s.PreCommit.Dycw,
				Prettier:  s.PreCommit.Prettier,
				Ruff:      s.PreCommit.Ruff,
				Shell:     s.PreCommit.Shell,
				Taplo:     s.PreCommit.Taplo,
				UV:        s.PreCommit.UV,
				Script:    s.Script,
			})
		})},
	)
	steps = append(steps, when(s.Coverage, "coverage", state(func() (edit.State, error) {
		return recipe.CoveragercTOML(ws)
	}))...)
	steps = append(steps, when(s.Envrc.Enabled || s.Envrc.UV.Enabled, "envrc", state(func() (edit.State, error) {
		return recipe.Envrc(ws, recipe.EnvrcOptions{
			UV:            s.Envrc.UV.Enabled,
			NativeTLS:     s.Envrc.UV.NativeTLS,
			ExtraArgs:     s.Envrc.UV.ExtraArgs,
			PythonVersion: s.PythonVersion,
			Script:        s.Script,
		})
	}))...)
	steps = append(steps, when(s.PullRequestEnabled(), "pull-request workflow", r.pullRequest)...)
	steps = append(steps, when(s.PushEnabled(), "push workflow", state(func() (edit.State, error) {
		push := s.GitHub.Push
		return recipe.GitHubPushYAML(ws, recipe.PushOptions{
			Publish:           push.Publish.Enabled,
			TrustedPublishing: push.Publish.TrustedPublishing,
			Tag:               push.Tag.Enabled,
			TagMajor:          push.Tag.Major,
			TagMajorMinor:     push.Tag.MajorMinor,
			TagLatest:         push.Tag.Latest,
		})
	}))...)
	steps = append(steps, when(s.PyprojectEnabled(), "pyproject", state(func() (edit.State, error) {
		indexes := make([]recipe.Index, 0, len(s.Pyproject.UVIndexes))
		for _, idx := range s.Pyproject.UVIndexes {
			indexes = append(indexes, recipe.Index{Name: idx.Name, URL: idx.URL})
		}
		return recipe.PyprojectTOML(ws, recipe.PyprojectOptions{
			PythonVersion:               s.PythonVersion,
			Description:                 s.Description,
			PackageName:                 s.PackageName,
			Readme:                      s.Readme,
			OptionalDependenciesScripts: s.Pyproject.OptionalDependenciesScripts,
			PythonPackageName:           s.PythonPackageName,
			PythonPackageNameUse:        s.PythonPackageNameUse(),
			Indexes:                     indexes,
		})
	}))...)
	steps = append(steps, when(s.Pyright, "pyright", state(func() (edit.State, error) {
		return recipe.PyrightconfigJSON(ws, s.PythonVersion, s.Script)
	}))...)
	steps = append(steps, when(s.PytestEnabled(), "pytest", state(func() (edit.State, error) {
		return recipe.PytestTOML(ws, recipe.PytestOptions{
			Asyncio:           s.Pytest.Asyncio,
			IgnoreWarnings:    s.Pytest.IgnoreWarnings,
			Timeout:           s.Pytest.Timeout,
			Coverage:          s.Coverage,
			PythonPackageName: s.PythonPackageNameUse(),
			Script:            s.Script,
		})
	}))...)
	steps = append(steps, when(s.Readme, "readme", state(func() (edit.State, error) {
		return recipe.ReadmeMD(ws, s.RepoName, s.Description)
	}))...)
	steps = append(steps, when(s.Ruff, "ruff", state(func() (edit.State, error) {
		return recipe.RuffTOML(ws, s.PythonVersion)
	}))...)
	steps = append(steps, when(s.RunVersionBump && !IsTemplate(ws.Root), "version bump", func() error {
		return SyncVersion(ws, r.History)
	})...)
	return steps
}

func (r *Runner) pullRequest() error {
	s := r.Settings
	pr := s.GitHub.PullRequest
	opts := recipe.PullRequestOptions{
		PreCommit:     pr.PreCommit,
		Pyright:       pr.Pyright,
		Ruff:          pr.Ruff,
		PythonVersion: s.PythonVersion,
		Script:        s.Script,
	}
	if pr.Pytest.Enabled() {
		job, err := pytestJob(pr.Pytest, s.PythonVersion, s.Pytest.Timeout)
		if err != nil {
			return err
		}
		opts.Pytest = job
	}
	_, err := recipe.GitHubPullRequestYAML(r.Workspace, opts)
	return err
}

func pytestJob(m config.PytestMatrix, pythonVersion string, timeout *int) (*recipe.PytestJob, error) {
	job := &recipe.PytestJob{Timeout: timeout}
	add := func(values *[]string, cond bool, v string) {
		if cond && !slices.Contains(*values, v) {
			*values = append(*values, v)
		}
	}
	add(&job.OS, m.OS.Windows, "windows-latest")
	add(&job.OS, m.OS.MacOS, "macos-latest")
	add(&job.OS, m.OS.Ubuntu, "ubuntu-latest")

	add(&job.PythonVersions, m.PythonVersion.Default, pythonVersion)
	add(&job.PythonVersions, m.PythonVersion.V312, "3.12")
	add(&job.PythonVersions, m.PythonVersion.V313, "3.13")
	add(&job.PythonVersions, m.PythonVersion.V314, "3.14")
	if m.AllVersions {
		all, err := recipe.PythonVersions(pythonVersion)
		if err != nil {
			return nil, err
		}
		for _, v := range all {
			add(&job.PythonVersions, true, v)
		}
	}

	add(&job.Resolutions, m.Resolution.Highest, "highest")
	add(&job.Resolutions, m.Resolution.LowestDirect, "lowest-direct")
	return job, nil
}
