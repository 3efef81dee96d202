package recipe

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/conformalize/conformalize/internal/document"
	"github.com/conformalize/conformalize/internal/edit"
)

// ActionVersions pins third-party actions used in workflow steps.
var ActionVersions = map[string]string{
	"actions/checkout":      "v6",
	"actions/setup-python":  "v6",
	"astral-sh/ruff-action": "v3",
	"astral-sh/setup-uv":    "v7",
}

// glob lists the workspace files matching pattern as slash-separated
// relative paths. A missing base directory yields no matches.
func glob(ws *edit.Workspace, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(ws.Root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", pattern, err)
	}
	return matches, nil
}

// UpdateActionFileExtensions renames .github/**/*.yml to .yaml.
func UpdateActionFileExtensions(ws *edit.Workspace) error {
	paths, err := glob(ws, ".github/**/*.yml")
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := ws.Rename(p, strings.TrimSuffix(p, ".yml")+".yaml"); err != nil {
			return err
		}
	}
	return nil
}

// UpdateActionVersions rewrites the "uses" of every workflow step that
// refers to a pinned action so that it uses the pinned version.
func UpdateActionVersions(ws *edit.Workspace) error {
	paths, err := glob(ws, ".github/**/*.yaml")
	if err != nil {
		return err
	}
	for _, p := range paths {
		if _, err := edit.EditYAML(ws, p, func(doc *document.Map) error {
			pinUses(doc)
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func pinUses(v any) {
	switch t := v.(type) {
	case *document.Map:
		for _, e := range t.Entries() {
			if s, ok := e.Value.(string); ok && e.Key == "uses" {
				if pinned, ok := pinAction(s); ok {
					t.Set(e.Key, pinned)
				}
				continue
			}
			pinUses(e.Value)
		}
	case *document.Seq:
		for _, item := range t.Items() {
			pinUses(item)
		}
	}
}

func pinAction(uses string) (string, bool) {
	action, _, ok := strings.Cut(uses, "@")
	if !ok {
		return "", false
	}
	version, ok := ActionVersions[action]
	if !ok {
		return "", false
	}
	return action + "@" + version, true
}

var requiresPython = regexp.MustCompile(`(?m)^# requires-python = ">=\d+\.\d+"`)

// UpdateScriptRequiresPython points the inline script metadata of every
// Python file at pythonVersion. Files under hidden directories are skipped.
func UpdateScriptRequiresPython(ws *edit.Workspace, pythonVersion string) error {
	paths, err := glob(ws, "**/*.py")
	if err != nil {
		return err
	}
	header := fmt.Sprintf(`# requires-python = ">=%s"`, pythonVersion)
	for _, p := range paths {
		if hidden(p) {
			continue
		}
		if _, err := edit.EditText(ws, p, func(doc *document.Text) error {
			doc.Set(requiresPython.ReplaceAllLiteralString(doc.String(), header))
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func hidden(p string) bool {
	for _, part := range strings.Split(path.Dir(p), "/") {
		if strings.HasPrefix(part, ".") && part != "." {
			return true
		}
	}
	return false
}
