package recipe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/conformalize/conformalize/internal/codec"
	"github.com/conformalize/conformalize/internal/document"
	"github.com/conformalize/conformalize/internal/edit"
)

func newWorkspace(t *testing.T) *edit.Workspace {
	t.Helper()
	return edit.NewWorkspace(t.TempDir(), zaptest.NewLogger(t))
}

// rerun applies fn to a fresh workspace on the same root and checks that
// nothing changes.
func rerun(t *testing.T, ws *edit.Workspace, fn func(*edit.Workspace) (edit.State, error)) {
	t.Helper()
	again := edit.NewWorkspace(ws.Root, zaptest.NewLogger(t))
	state, err := fn(again)
	require.NoError(t, err)
	assert.Equal(t, edit.Unchanged, state)
	assert.Equal(t, 0, again.Mods.Len(), "second run modified %s", again.Mods)
}

func load(t *testing.T, ws *edit.Workspace, rel string) *document.Map {
	t.Helper()
	c, err := codec.ForPath(rel)
	require.NoError(t, err)
	data, err := os.ReadFile(ws.Path(rel))
	require.NoError(t, err)
	doc, err := c.Decode(data)
	require.NoError(t, err)
	return doc
}

func readFile(t *testing.T, ws *edit.Workspace, rel string) string {
	t.Helper()
	data, err := os.ReadFile(ws.Path(rel))
	require.NoError(t, err)
	return string(data)
}

func writeFile(t *testing.T, ws *edit.Workspace, rel, content string) {
	t.Helper()
	path := ws.Path(rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// lookup walks nested mappings and sequence indexes.
func lookup(t *testing.T, v any, path ...any) any {
	t.Helper()
	for _, p := range path {
		switch k := p.(type) {
		case string:
			m, ok := v.(*document.Map)
			require.True(t, ok, "%v is not a mapping", p)
			v, ok = m.Get(k)
			require.True(t, ok, "missing key %q", k)
		case int:
			s, ok := v.(document.Sequence)
			require.True(t, ok, "%v is not a sequence", p)
			require.Less(t, k, s.Len())
			v = s.At(k)
		}
	}
	return v
}

func lookupMap(t *testing.T, v any, path ...any) *document.Map {
	t.Helper()
	m, ok := lookup(t, v, path...).(*document.Map)
	require.True(t, ok, "%v is not a mapping", path)
	return m
}

func lookupStrings(t *testing.T, v any, path ...any) []string {
	t.Helper()
	s, ok := lookup(t, v, path...).(*document.Seq)
	require.True(t, ok, "%v is not a sequence", path)
	return s.Strings()
}

func newWorkspaceAt(t *testing.T, root string) *edit.Workspace {
	t.Helper()
	return edit.NewWorkspace(root, zaptest.NewLogger(t))
}
