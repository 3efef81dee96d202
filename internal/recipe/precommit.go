package recipe

import (
	"regexp"

	"github.com/conformalize/conformalize/internal/document"
	"github.com/conformalize/conformalize/internal/edit"
)

// PreCommitOptions selects the optional hooks of .pre-commit-config.yaml.
type PreCommitOptions struct {
	Dockerfmt bool
	Dycw      bool
	Prettier  bool
	Ruff      bool
	Shell     bool
	Taplo     bool
	UV        bool
	// Script restricts the uv lock hook to a single script.
	Script string
}

// ArgsMode says how hook arguments are reconciled with the file.
type ArgsMode int

const (
	// ArgsAdd appends missing arguments and keeps the rest.
	ArgsAdd ArgsMode = iota + 1
	// ArgsExact replaces the arguments.
	ArgsExact
)

// Hook describes one hook of a pre-commit repo. Empty fields are left
// untouched in the file.
type Hook struct {
	ID       string
	Name     string
	Entry    string
	Language string
	Files    string
	TypesOr  []string
	ArgsMode ArgsMode
	Args     []string
}

const (
	localRepo          = "local"
	preCommitHooksRepo = "https://github.com/pre-commit/pre-commit-hooks"
)

// PreCommitConfigYAML writes .pre-commit-config.yaml. The base hooks are
// always present; opts adds the optional ones.
func PreCommitConfigYAML(ws *edit.Workspace, opts PreCommitOptions) (edit.State, error) {
	type repoHook struct {
		url  string
		hook Hook
	}
	hooks := []repoHook{
		{"https://github.com/dycw/conformalize", Hook{ID: "conformalize"}},
		{preCommitHooksRepo, Hook{ID: "check-executables-have-shebangs"}},
		{preCommitHooksRepo, Hook{ID: "check-merge-conflict"}},
		{preCommitHooksRepo, Hook{ID: "check-symlinks"}},
		{preCommitHooksRepo, Hook{ID: "destroyed-symlinks"}},
		{preCommitHooksRepo, Hook{ID: "detect-private-key"}},
		{preCommitHooksRepo, Hook{ID: "end-of-file-fixer"}},
		{preCommitHooksRepo, Hook{ID: "mixed-line-ending", ArgsMode: ArgsAdd, Args: []string{"--fix=lf"}}},
		{preCommitHooksRepo, Hook{ID: "no-commit-to-branch"}},
		{preCommitHooksRepo, Hook{ID: "pretty-format-json", ArgsMode: ArgsAdd, Args: []string{"--autofix"}}},
		{preCommitHooksRepo, Hook{ID: "trailing-whitespace"}},
	}
	if opts.Dockerfmt {
		hooks = append(hooks, repoHook{"https://github.com/reteps/dockerfmt", Hook{
			ID: "dockerfmt", ArgsMode: ArgsAdd, Args: []string{"--newline", "--write"},
		}})
	}
	if opts.Dycw {
		hooks = append(hooks,
			repoHook{"https://github.com/dycw/actions", Hook{ID: "format-requirements"}},
			repoHook{"https://github.com/dycw/actions", Hook{ID: "replace-sequence-strs"}},
		)
	}
	if opts.Prettier {
		hooks = append(hooks, repoHook{localRepo, Hook{
			ID:       "prettier",
			Name:     "prettier",
			Entry:    "npx prettier --write",
			Language: "system",
			TypesOr:  []string{"markdown", "yaml"},
		}})
	}
	if opts.Ruff {
		const ruffRepo = "https://github.com/astral-sh/ruff-pre-commit"
		hooks = append(hooks,
			repoHook{ruffRepo, Hook{ID: "ruff-check", ArgsMode: ArgsAdd, Args: []string{"--fix"}}},
			repoHook{ruffRepo, Hook{ID: "ruff-format"}},
		)
	}
	if opts.Shell {
		hooks = append(hooks,
			repoHook{"https://github.com/scop/pre-commit-shfmt", Hook{ID: "shfmt"}},
			repoHook{"https://github.com/koalaman/shellcheck-precommit", Hook{ID: "shellcheck"}},
		)
	}
	if opts.Taplo {
		hooks = append(hooks, repoHook{"https://github.com/compwa/taplo-pre-commit", Hook{
			ID:       "taplo-format",
			ArgsMode: ArgsExact,
			Args: []string{
				"--option", "indent_tables=true",
				"--option", "indent_entries=true",
				"--option", "reorder_keys=true",
			},
		}})
	}
	if opts.UV {
		hook := Hook{
			ID:       "uv-lock",
			ArgsMode: ArgsAdd,
			Args:     []string{"--upgrade", "--resolution", "highest", "--prerelease", "disallow"},
		}
		if opts.Script != "" {
			hook.Files = "^" + regexp.QuoteMeta(opts.Script) + "$"
			hook.Args = append(hook.Args, "--script="+opts.Script)
		}
		hooks = append(hooks, repoHook{"https://github.com/astral-sh/uv-pre-commit", hook})
	}

	return edit.EditYAML(ws, PreCommitConfigFile, func(doc *document.Map) error {
		for _, rh := range hooks {
			if err := EnsureHook(doc, rh.url, rh.hook); err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureHook finds the repo with the given url and the hook with hook.ID in
// it, adding either when missing, and applies the non-empty fields of hook.
// Remote repos are added pinned to master.
func EnsureHook(doc *document.Map, url string, hook Hook) error {
	repos, err := document.GetOrCreateSeq(doc, "repos")
	if err != nil {
		return err
	}
	var extra *document.Map
	if url != localRepo {
		extra = document.MapOf("rev", "master")
	}
	repo, err := document.EnsureContainsPartial(repos, document.MapOf("repo", url), extra)
	if err != nil {
		return err
	}
	hooks, err := document.GetOrCreateSeq(repo, "hooks")
	if err != nil {
		return err
	}
	h, err := document.EnsureContainsPartial(hooks, document.MapOf("id", hook.ID), nil)
	if err != nil {
		return err
	}

	for _, f := range []struct{ key, value string }{
		{"name", hook.Name},
		{"entry", hook.Entry},
		{"language", hook.Language},
		{"files", hook.Files},
	} {
		if f.value != "" {
			h.Set(f.key, f.value)
		}
	}
	if hook.TypesOr != nil {
		h.Set("types_or", hook.TypesOr)
	}
	switch hook.ArgsMode {
	case ArgsAdd:
		args, err := document.GetOrCreateSeq(h, "args")
		if err != nil {
			return err
		}
		return document.EnsureContains(args, anySlice(hook.Args)...)
	case ArgsExact:
		h.Set("args", hook.Args)
	}
	return nil
}
