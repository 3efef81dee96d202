package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreate(t *testing.T) {
	t.Parallel()

	doc := NewMap()

	tool, err := GetOrCreateTable(doc, "tool")
	require.NoError(t, err)
	assert.False(t, tool.InlineStyle)

	again, err := GetOrCreateTable(doc, "tool")
	require.NoError(t, err)
	assert.Same(t, tool, again)

	env, err := GetOrCreateMap(tool, "env")
	require.NoError(t, err)
	assert.True(t, env.InlineStyle)

	seq, err := GetOrCreateSeq(tool, "addopts")
	require.NoError(t, err)
	seq.Append("-ra")
	seq2, err := GetOrCreateSeq(tool, "addopts")
	require.NoError(t, err)
	assert.Equal(t, 1, seq2.Len())

	files, err := GetOrCreateTableSeq(tool, "files")
	require.NoError(t, err)
	assert.Equal(t, 0, files.Len())

	assert.Equal(t, []string{"tool"}, doc.Keys())
	assert.Equal(t, []string{"env", "addopts", "files"}, tool.Keys())
}

func TestGetOrCreate_TypeMismatch(t *testing.T) {
	t.Parallel()

	doc := MapOf(
		"name", "pull-request",
		"branches", SeqOf("master"),
		"on", MapOf(),
		"files", NewTableSeq(),
	)

	tests := map[string]func() error{
		"map over string": func() error {
			_, err := GetOrCreateMap(doc, "name")
			return err
		},
		"table over sequence": func() error {
			_, err := GetOrCreateTable(doc, "branches")
			return err
		},
		"sequence over map": func() error {
			_, err := GetOrCreateSeq(doc, "on")
			return err
		},
		"sequence over array of tables": func() error {
			_, err := GetOrCreateSeq(doc, "files")
			return err
		},
		"array of tables over sequence": func() error {
			_, err := GetOrCreateTableSeq(doc, "branches")
			return err
		},
	}

	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := fn()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTypeMismatch)
		})
	}

	v, _ := doc.Get("name")
	assert.Equal(t, "pull-request", v, "a failed accessor must not coerce the value")
}

func TestGetPath(t *testing.T) {
	t.Parallel()

	doc := NewMap()
	bump, err := GetPath(doc, "tool", "bumpversion")
	require.NoError(t, err)
	bump.Set("allow_dirty", true)

	tool, _ := doc.Get("tool")
	inner, _ := tool.(*Map).Get("bumpversion")
	assert.Same(t, bump, inner)
}

func TestMapSetKeepsPosition(t *testing.T) {
	t.Parallel()

	m := MapOf("a", 1, "b", 2, "c", 3)
	m.Entry("b").Comments = []string{"# keep me"}
	m.Set("b", 20)
	m.Set("d", 4)
	assert.Equal(t, []string{"a", "b", "c", "d"}, m.Keys())
	assert.Equal(t, []string{"# keep me"}, m.Entry("b").Comments)

	assert.True(t, m.Delete("a"))
	assert.False(t, m.Delete("a"))
	assert.Equal(t, []string{"b", "c", "d"}, m.Keys())
	assert.Equal(t, int64(4), m.SetDefault("d", 5))
}
