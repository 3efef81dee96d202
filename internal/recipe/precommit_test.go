package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conformalize/conformalize/internal/document"
	"github.com/conformalize/conformalize/internal/edit"
)

func hookIDs(t *testing.T, repo *document.Map) []string {
	t.Helper()
	hooks := lookup(t, repo, "hooks").(*document.Seq)
	var ids []string
	for _, h := range hooks.Items() {
		ids = append(ids, lookup(t, h, "id").(string))
	}
	return ids
}

func findRepo(t *testing.T, doc *document.Map, url string) *document.Map {
	t.Helper()
	repos := lookup(t, doc, "repos").(*document.Seq)
	repo, err := document.FindUniquePartialMatch(repos, document.MapOf("repo", url))
	require.NoError(t, err)
	return repo
}

func findHook(t *testing.T, repo *document.Map, id string) *document.Map {
	t.Helper()
	hook, err := document.FindUniquePartialMatch(lookup(t, repo, "hooks").(*document.Seq), document.MapOf("id", id))
	require.NoError(t, err)
	return hook
}

func TestPreCommitConfigYAML_Base(t *testing.T) {
	t.Parallel()
	apply := func(ws *edit.Workspace) (edit.State, error) {
		return PreCommitConfigYAML(ws, PreCommitOptions{})
	}
	ws := newWorkspace(t)

	state, err := apply(ws)
	require.NoError(t, err)
	assert.Equal(t, edit.Created, state)

	doc := load(t, ws, PreCommitConfigFile)
	assert.Equal(t, 2, lookup(t, doc, "repos").(*document.Seq).Len())

	self := findRepo(t, doc, "https://github.com/dycw/conformalize")
	assert.Equal(t, "master", lookup(t, self, "rev"))
	assert.Equal(t, []string{"conformalize"}, hookIDs(t, self))

	hooks := findRepo(t, doc, preCommitHooksRepo)
	assert.Equal(t, []string{
		"check-executables-have-shebangs",
		"check-merge-conflict",
		"check-symlinks",
		"destroyed-symlinks",
		"detect-private-key",
		"end-of-file-fixer",
		"mixed-line-ending",
		"no-commit-to-branch",
		"pretty-format-json",
		"trailing-whitespace",
	}, hookIDs(t, hooks))
	assert.Equal(t, []string{"--fix=lf"}, lookupStrings(t, findHook(t, hooks, "mixed-line-ending"), "args"))

	rerun(t, ws, apply)
}

func TestPreCommitConfigYAML_Optional(t *testing.T) {
	t.Parallel()
	apply := func(ws *edit.Workspace) (edit.State, error) {
		return PreCommitConfigYAML(ws, PreCommitOptions{
			Dockerfmt: true,
			Dycw:      true,
			Prettier:  true,
			Ruff:      true,
			Shell:     true,
			Taplo:     true,
			UV:        true,
			Script:    "tools/run.py",
		})
	}
	ws := newWorkspace(t)

	_, err := apply(ws)
	require.NoError(t, err)
	doc := load(t, ws, PreCommitConfigFile)

	local := findRepo(t, doc, "local")
	assert.False(t, local.Has("rev"))
	prettier := findHook(t, local, "prettier")
	assert.Equal(t, "npx prettier --write", lookup(t, prettier, "entry"))
	assert.Equal(t, "system", lookup(t, prettier, "language"))
	assert.Equal(t, []string{"markdown", "yaml"}, lookupStrings(t, prettier, "types_or"))

	assert.Equal(t, []string{"format-requirements", "replace-sequence-strs"}, hookIDs(t, findRepo(t, doc, "https://github.com/dycw/actions")))
	assert.Equal(t, []string{"ruff-check", "ruff-format"}, hookIDs(t, findRepo(t, doc, "https://github.com/astral-sh/ruff-pre-commit")))
	assert.Equal(t, []string{"--newline", "--write"}, lookupStrings(t, findHook(t, findRepo(t, doc, "https://github.com/reteps/dockerfmt"), "dockerfmt"), "args"))

	uv := findHook(t, findRepo(t, doc, "https://github.com/astral-sh/uv-pre-commit"), "uv-lock")
	assert.Equal(t, `^tools/run\.py$`, lookup(t, uv, "files"))
	assert.Equal(t, []string{
		"--upgrade", "--resolution", "highest", "--prerelease", "disallow", "--script=tools/run.py",
	}, lookupStrings(t, uv, "args"))

	rerun(t, ws, apply)
}

func TestPreCommitConfigYAML_KeepsUserChoices(t *testing.T) {
	t.Parallel()
	ws := newWorkspace(t)
	writeFile(t, ws, PreCommitConfigFile, `repos:
  - repo: https://github.com/pre-commit/pre-commit-hooks
    rev: v6.0.0
    hooks:
      - id: mixed-line-ending
        args: [--fix=auto]
  - repo: https://github.com/compwa/taplo-pre-commit
    rev: v0.9.3
    hooks:
      - id: taplo-format
        args: [--check]
`)

	_, err := PreCommitConfigYAML(ws, PreCommitOptions{Taplo: true})
	require.NoError(t, err)
	doc := load(t, ws, PreCommitConfigFile)

	hooks := findRepo(t, doc, preCommitHooksRepo)
	assert.Equal(t, "v6.0.0", lookup(t, hooks, "rev"))
	assert.Equal(t, []string{"--fix=auto", "--fix=lf"}, lookupStrings(t, findHook(t, hooks, "mixed-line-ending"), "args"))

	taplo := findHook(t, findRepo(t, doc, "https://github.com/compwa/taplo-pre-commit"), "taplo-format")
	assert.Equal(t, []string{
		"--option", "indent_tables=true",
		"--option", "indent_entries=true",
		"--option", "reorder_keys=true",
	}, lookupStrings(t, taplo, "args"))
}

func TestEnsureHook_AmbiguousRepo(t *testing.T) {
	t.Parallel()

	repo := document.MapOf("repo", "local", "hooks", document.NewSeq())
	doc := document.MapOf("repos", document.SeqOf(repo, document.Clone(repo)))

	err := EnsureHook(doc, "local", Hook{ID: "prettier"})
	assert.ErrorIs(t, err, document.ErrAmbiguousMatch)
}
