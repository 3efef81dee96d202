package recipe

import (
	"strings"

	"github.com/conformalize/conformalize/internal/document"
	"github.com/conformalize/conformalize/internal/edit"
)

// InitialVersion is the version of a project that has never been released.
const InitialVersion = "0.1.0"

// Placeholders in the search and replace templates of .bumpversion.toml.
const (
	CurrentVersionPlaceholder = "{current_version}"
	NewVersionPlaceholder     = "{new_version}"
)

// BumpversionOptions selects the files whose version .bumpversion.toml keeps
// in step.
type BumpversionOptions struct {
	// Pyproject adds pyproject.toml.
	Pyproject bool
	// PythonPackageName adds src/<name>/__init__.py when set.
	PythonPackageName string
}

// BumpversionTOML writes .bumpversion.toml.
func BumpversionTOML(ws *edit.Workspace, opts BumpversionOptions) (edit.State, error) {
	return EditBumpversion(ws, func(bumpversion *document.Map) error {
		if opts.Pyproject {
			if err := ensureVersionFile(bumpversion, PyprojectFile, `version = "%s"`); err != nil {
				return err
			}
		}
		if opts.PythonPackageName != "" {
			path := "src/" + opts.PythonPackageName + "/__init__.py"
			if err := ensureVersionFile(bumpversion, path, `__version__ = "%s"`); err != nil {
				return err
			}
		}
		return nil
	})
}

// EditBumpversion edits the [tool.bumpversion] table of .bumpversion.toml.
// The table always allows a dirty tree and starts at InitialVersion.
func EditBumpversion(ws *edit.Workspace, fn func(bumpversion *document.Map) error) (edit.State, error) {
	return edit.EditTOML(ws, BumpversionFile, func(doc *document.Map) error {
		bumpversion, err := document.GetPath(doc, "tool", "bumpversion")
		if err != nil {
			return err
		}
		bumpversion.Set("allow_dirty", true)
		bumpversion.SetDefault("current_version", InitialVersion)
		return fn(bumpversion)
	})
}

func ensureVersionFile(bumpversion *document.Map, path, template string) error {
	files, err := document.GetOrCreateTableSeq(bumpversion, "files")
	if err != nil {
		return err
	}
	document.EnsureTableSeqContains(files, VersionFile{
		Filename: path,
		Search:   strings.Replace(template, "%s", CurrentVersionPlaceholder, 1),
		Replace:  strings.Replace(template, "%s", NewVersionPlaceholder, 1),
	}.Table())
	return nil
}

// VersionFile is one [[tool.bumpversion.files]] entry.
type VersionFile struct {
	Filename string
	Search   string
	Replace  string
}

// Table renders the entry as a TOML table.
func (f VersionFile) Table() *document.Map {
	return document.MapOf("filename", f.Filename, "search", f.Search, "replace", f.Replace)
}

// SearchFor returns the search text for version.
func (f VersionFile) SearchFor(version string) string {
	return strings.ReplaceAll(f.Search, CurrentVersionPlaceholder, version)
}

// ReplaceFor returns the replacement text for version.
func (f VersionFile) ReplaceFor(version string) string {
	return strings.ReplaceAll(f.Replace, NewVersionPlaceholder, version)
}

// VersionFiles lists the files entries of a [tool.bumpversion] table. Entries
// without a filename are skipped; a missing search or replace defaults to
// the bare version placeholder.
func VersionFiles(bumpversion *document.Map) ([]VersionFile, error) {
	v, ok := bumpversion.Get("files")
	if !ok {
		return nil, nil
	}
	files, ok := v.(document.Sequence)
	if !ok {
		return nil, &document.TypeMismatchError{Key: "files", Want: "array of tables", Got: document.KindOf(v)}
	}
	var out []VersionFile
	for i := range files.Len() {
		t, ok := files.At(i).(*document.Map)
		if !ok {
			return nil, &document.TypeMismatchError{Key: "files", Want: "table", Got: document.KindOf(files.At(i))}
		}
		f := VersionFile{
			Filename: stringField(t, "filename"),
			Search:   stringField(t, "search"),
			Replace:  stringField(t, "replace"),
		}
		if f.Filename == "" {
			continue
		}
		if f.Search == "" {
			f.Search = CurrentVersionPlaceholder
		}
		if f.Replace == "" {
			f.Replace = NewVersionPlaceholder
		}
		out = append(out, f)
	}
	return out, nil
}

func stringField(m *document.Map, key string) string {
	v, _ := m.Get(key)
	s, _ := v.(string)
	return s
}
