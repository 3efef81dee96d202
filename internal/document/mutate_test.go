package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureContains(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		initial []any
		add     []any
		want    []any
	}{
		"appends missing": {
			initial: []any{"ALL"},
			add:     []any{"RUF022", "RUF029"},
			want:    []any{"ALL", "RUF022", "RUF029"},
		},
		"skips present": {
			initial: []any{"ALL", "RUF022"},
			add:     []any{"ALL", "RUF029"},
			want:    []any{"ALL", "RUF022", "RUF029"},
		},
		"dedupes within one call": {
			add:  []any{"-ra", "-ra"},
			want: []any{"-ra"},
		},
		"keeps existing order": {
			initial: []any{"b", "a"},
			add:     []any{"a", "c"},
			want:    []any{"b", "a", "c"},
		},
		"mappings by value": {
			initial: []any{MapOf("cron", "0 0 * * *")},
			add:     []any{MapOf("cron", "0 0 * * *")},
			want:    []any{MapOf("cron", "0 0 * * *")},
		},
		"int and int64 are the same": {
			initial: []any{int64(1)},
			add:     []any{1},
			want:    []any{int64(1)},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			seq := SeqOf(tt.initial...)
			require.NoError(t, EnsureContains(seq, tt.add...))
			require.NoError(t, EnsureContains(seq, tt.add...))
			assert.True(t, Equal(SeqOf(tt.want...), seq), "got %s", Format(seq))
		})
	}
}

func TestEnsureContains_RejectsTableSeq(t *testing.T) {
	t.Parallel()

	ts := NewTableSeq()
	err := EnsureContains(ts, MapOf("name", "x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Contains(t, err.Error(), "EnsureTableSeqContains")
	assert.Equal(t, 0, ts.Len())
}

func TestEnsureTableSeqContains(t *testing.T) {
	t.Parallel()

	file := func() *Map {
		return MapOf("filename", "pyproject.toml", "search", `version = "{current_version}"`)
	}
	ts := NewTableSeq()
	EnsureTableSeqContains(ts, file())
	EnsureTableSeqContains(ts, file(), MapOf("filename", "src/pkg/__init__.py"))
	EnsureTableSeqContains(ts, file())

	require.Equal(t, 2, ts.Len())
	assert.True(t, Equal(file(), ts.Table(0)))
}

func TestEnsureAbsent(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		initial []any
		remove  []any
		want    []any
	}{
		"removes present": {
			initial: []any{"ANN401", "RUF022", "S101"},
			remove:  []any{"RUF022", "S101"},
			want:    []any{"ANN401"},
		},
		"ignores absent": {
			initial: []any{"ANN401"},
			remove:  []any{"RUF029"},
			want:    []any{"ANN401"},
		},
		"removes one copy per value": {
			initial: []any{"S101", "D", "S101"},
			remove:  []any{"S101"},
			want:    []any{"D", "S101"},
		},
		"empty sequence": {
			remove: []any{"x"},
			want:   []any{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			seq := SeqOf(tt.initial...)
			EnsureAbsent(seq, tt.remove...)
			assert.True(t, Equal(SeqOf(tt.want...), seq), "got %s", Format(seq))
		})
	}
}

func TestEnsureContainsPartial(t *testing.T) {
	t.Parallel()

	t.Run("creates once", func(t *testing.T) {
		t.Parallel()
		repos := NewSeq()
		spec := MapOf("repo", "https://github.com/astral-sh/ruff-pre-commit")
		extra := MapOf("rev", "master")

		first, err := EnsureContainsPartial(repos, spec, extra)
		require.NoError(t, err)
		second, err := EnsureContainsPartial(repos, spec, extra)
		require.NoError(t, err)

		assert.Equal(t, 1, repos.Len())
		assert.Same(t, first, second)
		rev, _ := first.Get("rev")
		assert.Equal(t, "master", rev)
	})

	t.Run("extra overrides spec", func(t *testing.T) {
		t.Parallel()
		seq := NewSeq()
		got, err := EnsureContainsPartial(seq, MapOf("id", "a", "name", "old"), MapOf("name", "new"))
		require.NoError(t, err)
		name, _ := got.Get("name")
		assert.Equal(t, "new", name)
	})

	t.Run("returns existing unmodified and lets caller extend it", func(t *testing.T) {
		t.Parallel()
		step := MapOf("name", "Run 'pyright'", "uses", "dycw/action-pyright@latest", "with", MapOf("python-version", "3.14"))
		steps := SeqOf(step)

		got, err := EnsureContainsPartial(steps, MapOf("name", "Run 'pyright'", "uses", "dycw/action-pyright@latest"), nil)
		require.NoError(t, err)
		assert.Same(t, step, got)

		with, err := GetOrCreateMap(got, "with")
		require.NoError(t, err)
		with.Set("with-requirements", "script.py")

		again, err := EnsureContainsPartial(steps, MapOf("name", "Run 'pyright'", "uses", "dycw/action-pyright@latest"), nil)
		require.NoError(t, err)
		assert.Same(t, step, again)
		assert.Equal(t, 1, steps.Len())
	})

	t.Run("new element does not alias the spec", func(t *testing.T) {
		t.Parallel()
		spec := MapOf("id", "shfmt")
		seq := NewSeq()
		got, err := EnsureContainsPartial(seq, spec, nil)
		require.NoError(t, err)
		got.Set("args", SeqOf("-w"))
		assert.False(t, spec.Has("args"))
	})

	t.Run("ambiguous propagates", func(t *testing.T) {
		t.Parallel()
		seq := SeqOf(MapOf("id", "x"), MapOf("id", "x", "name", "dup"))
		_, err := EnsureContainsPartial(seq, MapOf("id", "x"), nil)
		assert.ErrorIs(t, err, ErrAmbiguousMatch)
		assert.Equal(t, 2, seq.Len())
	})
}

func TestMutationsAreIdempotent(t *testing.T) {
	t.Parallel()

	apply := func(doc *Map) {
		lint, err := GetOrCreateTable(doc, "lint")
		require.NoError(t, err)
		sel, err := GetOrCreateSeq(lint, "select")
		require.NoError(t, err)
		require.NoError(t, EnsureContains(sel, "ALL", "RUF022", "RUF029"))
		ignore, err := GetOrCreateSeq(lint, "ignore")
		require.NoError(t, err)
		require.NoError(t, EnsureContains(ignore, "ANN401", "RUF022"))
		EnsureAbsent(ignore, "RUF022")
		jobs, err := GetOrCreateSeq(doc, "steps")
		require.NoError(t, err)
		step, err := EnsureContainsPartial(jobs, MapOf("name", "Run 'ruff'"), MapOf("uses", "dycw/action-ruff@latest"))
		require.NoError(t, err)
		with, err := GetOrCreateMap(step, "with")
		require.NoError(t, err)
		with.Set("token-checkout", "${{secrets.GITHUB_TOKEN}}")
	}

	doc := NewMap()
	apply(doc)
	once := CloneMap(doc)
	apply(doc)
	assert.True(t, Equal(once, doc), "once: %s\ntwice: %s", Format(once), Format(doc))
}
