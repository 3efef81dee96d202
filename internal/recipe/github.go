package recipe

import (
	"math"

	"github.com/conformalize/conformalize/internal/document"
	"github.com/conformalize/conformalize/internal/edit"
)

// PytestJob is the matrix of the pull-request pytest job. Values are added
// to the matrix, never removed.
type PytestJob struct {
	OS             []string
	PythonVersions []string
	Resolutions    []string
	// Timeout in seconds; nil leaves timeout-minutes unset.
	Timeout *int
}

// PullRequestOptions selects the jobs of the pull-request workflow.
type PullRequestOptions struct {
	PreCommit bool
	Pyright   bool
	Ruff      bool
	// Pytest adds the pytest job when non-nil.
	Pytest        *PytestJob
	PythonVersion string
	// Script is installed as the requirements of the pyright and pytest steps.
	Script string
}

// GitHubPullRequestYAML writes .github/workflows/pull-request.yaml.
func GitHubPullRequestYAML(ws *edit.Workspace, opts PullRequestOptions) (edit.State, error) {
	return edit.EditYAML(ws, PullRequestFile, func(doc *document.Map) error {
		doc.Set("name", "pull-request")
		on, err := document.GetOrCreateMap(doc, "on")
		if err != nil {
			return err
		}
		pr, err := document.GetOrCreateMap(on, "pull_request")
		if err != nil {
			return err
		}
		if err := ensureSeq(pr, "branches", "master"); err != nil {
			return err
		}
		if err := ensureSeq(on, "schedule", document.MapOf("cron", "0 0 * * *")); err != nil {
			return err
		}
		jobs, err := document.GetOrCreateMap(doc, "jobs")
		if err != nil {
			return err
		}

		if opts.PreCommit {
			job, err := ubuntuJob(jobs, "pre-commit")
			if err != nil {
				return err
			}
			if err := ensureSeq(job, "steps", PreCommitStep(SecretToken, SecretToken)); err != nil {
				return err
			}
		}
		if opts.Pyright {
			job, err := ubuntuJob(jobs, "pyright")
			if err != nil {
				return err
			}
			s, err := ensureStep(job, PyrightStep(opts.PythonVersion, SecretToken, SecretToken))
			if err != nil {
				return err
			}
			if err := withRequirements(s, opts.Script); err != nil {
				return err
			}
		}
		if opts.Pytest != nil {
			if err := pytestJob(jobs, *opts.Pytest, opts.Script); err != nil {
				return err
			}
		}
		if opts.Ruff {
			job, err := ubuntuJob(jobs, "ruff")
			if err != nil {
				return err
			}
			if err := ensureSeq(job, "steps", RuffStep(SecretToken, SecretToken)); err != nil {
				return err
			}
		}
		return nil
	})
}

func pytestJob(jobs *document.Map, opts PytestJob, script string) error {
	job, err := document.GetOrCreateMap(jobs, "pytest")
	if err != nil {
		return err
	}
	env, err := document.GetOrCreateMap(job, "env")
	if err != nil {
		return err
	}
	env.Set("CI", "1")
	job.Set("name", "pytest (${{matrix.os}}, ${{matrix.python-version}}, ${{matrix.resolution}})")
	job.Set("runs-on", "${{matrix.os}}")
	s, err := ensureStep(job, PytestStep(SecretToken, SecretToken))
	if err != nil {
		return err
	}
	if err := withRequirements(s, script); err != nil {
		return err
	}

	strategy, err := document.GetOrCreateMap(job, "strategy")
	if err != nil {
		return err
	}
	strategy.Set("fail-fast", false)
	matrix, err := document.GetOrCreateMap(strategy, "matrix")
	if err != nil {
		return err
	}
	for _, axis := range []struct {
		key    string
		values []string
	}{
		{"os", opts.OS},
		{"python-version", opts.PythonVersions},
		{"resolution", opts.Resolutions},
	} {
		if err := ensureSeq(matrix, axis.key, anySlice(axis.values)...); err != nil {
			return err
		}
	}
	if opts.Timeout != nil {
		job.Set("timeout-minutes", TimeoutMinutes(*opts.Timeout))
	}
	return nil
}

// TimeoutMinutes converts a timeout in seconds to whole minutes, rounding
// half to even and never going below one minute.
func TimeoutMinutes(seconds int) int {
	return max(int(math.RoundToEven(float64(seconds)/60)), 1)
}

// PushOptions selects the jobs of the push workflow.
type PushOptions struct {
	Publish           bool
	TrustedPublishing bool
	Tag               bool
	TagMajor          bool
	TagMajorMinor     bool
	TagLatest         bool
}

// GitHubPushYAML writes .github/workflows/push.yaml.
func GitHubPushYAML(ws *edit.Workspace, opts PushOptions) (edit.State, error) {
	return edit.EditYAML(ws, PushFile, func(doc *document.Map) error {
		doc.Set("name", "push")
		on, err := document.GetOrCreateMap(doc, "on")
		if err != nil {
			return err
		}
		push, err := document.GetOrCreateMap(on, "push")
		if err != nil {
			return err
		}
		if err := ensureSeq(push, "branches", "master"); err != nil {
			return err
		}
		jobs, err := document.GetOrCreateMap(doc, "jobs")
		if err != nil {
			return err
		}

		if opts.Publish || opts.TrustedPublishing {
			job, err := document.GetOrCreateMap(jobs, "publish")
			if err != nil {
				return err
			}
			environment, err := document.GetOrCreateMap(job, "environment")
			if err != nil {
				return err
			}
			environment.Set("name", "pypi")
			permissions, err := document.GetOrCreateMap(job, "permissions")
			if err != nil {
				return err
			}
			permissions.Set("id-token", "write")
			job.Set("runs-on", "ubuntu-latest")
			s, err := ensureStep(job, PublishStep(PublishStepOptions{TokenCheckout: SecretToken, TokenUV: SecretToken}))
			if err != nil {
				return err
			}
			if opts.TrustedPublishing {
				if err := setWith(s, "trusted-publishing", true); err != nil {
					return err
				}
			}
		}

		if opts.Tag || opts.TagMajor || opts.TagMajorMinor || opts.TagLatest {
			job, err := ubuntuJob(jobs, "tag")
			if err != nil {
				return err
			}
			s, err := ensureStep(job, TagStep(SecretToken, SecretToken))
			if err != nil {
				return err
			}
			for _, flag := range []struct {
				key string
				on  bool
			}{
				{"major-minor", opts.TagMajorMinor},
				{"major", opts.TagMajor},
				{"latest", opts.TagLatest},
			} {
				if !flag.on {
					continue
				}
				if err := setWith(s, flag.key, true); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func ubuntuJob(jobs *document.Map, name string) (*document.Map, error) {
	job, err := document.GetOrCreateMap(jobs, name)
	if err != nil {
		return nil, err
	}
	job.Set("runs-on", "ubuntu-latest")
	return job, nil
}

func ensureSeq(container *document.Map, key string, values ...any) error {
	seq, err := document.GetOrCreateSeq(container, key)
	if err != nil {
		return err
	}
	return document.EnsureContains(seq, values...)
}

// ensureStep returns the step of job that partially matches want, appending
// want when there is none.
func ensureStep(job, want *document.Map) (*document.Map, error) {
	steps, err := document.GetOrCreateSeq(job, "steps")
	if err != nil {
		return nil, err
	}
	return document.EnsureContainsPartial(steps, want, nil)
}

func setWith(s *document.Map, key string, value any) error {
	with, err := document.GetOrCreateMap(s, "with")
	if err != nil {
		return err
	}
	with.Set(key, value)
	return nil
}

func withRequirements(s *document.Map, script string) error {
	if script == "" {
		return nil
	}
	return setWith(s, "with-requirements", script)
}

func anySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
