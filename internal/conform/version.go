package conform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blang/semver/v4"
	"go.uber.org/zap"

	"github.com/conformalize/conformalize/internal/codec"
	"github.com/conformalize/conformalize/internal/document"
	"github.com/conformalize/conformalize/internal/edit"
	"github.com/conformalize/conformalize/internal/git"
	"github.com/conformalize/conformalize/internal/recipe"
	"github.com/conformalize/conformalize/internal/version"
)

// ReleaseRef is the ref whose version counts as released.
const ReleaseRef = "origin/master"

// History is the release history of the project repository.
type History interface {
	// TagVersionAt returns the version tag on rev.
	TagVersionAt(rev string) (semver.Version, error)
	// FileAt returns the contents of path at rev.
	FileAt(rev, path string) (string, error)
}

// ErrInconsistentVersions is wrapped by *InconsistentVersionsError.
var ErrInconsistentVersions = errors.New("inconsistent versions")

// InconsistentVersionsError reports a version file that does not carry the
// version recorded in .bumpversion.toml.
type InconsistentVersionsError struct {
	Want string
	File string
}

func (e *InconsistentVersionsError) Error() string {
	return fmt.Sprintf("Inconsistent versions; should be %s", e.Want)
}

func (e *InconsistentVersionsError) Unwrap() error {
	return ErrInconsistentVersions
}

// bumpversionState is what .bumpversion.toml says about the version.
type bumpversionState struct {
	current semver.Version
	files   []recipe.VersionFile
}

func readBumpversion(ws *edit.Workspace) (bumpversionState, error) {
	var st bumpversionState
	_, err := recipe.EditBumpversion(ws, func(bumpversion *document.Map) error {
		var err error
		if st.current, err = currentVersion(bumpversion); err != nil {
			return err
		}
		st.files, err = recipe.VersionFiles(bumpversion)
		return err
	})
	return st, err
}

func currentVersion(bumpversion *document.Map) (semver.Version, error) {
	v, found := bumpversion.Get("current_version")
	if !found {
		return semver.Version{}, fmt.Errorf("%w: no current_version", version.ErrInvalid)
	}
	s, ok := v.(string)
	if !ok {
		return semver.Version{}, &document.TypeMismatchError{Key: "current_version", Want: "string", Got: document.KindOf(v)}
	}
	return version.Parse(s)
}

// versionFromBumpversion parses the current version out of the text of a
// .bumpversion.toml file.
func versionFromBumpversion(text string) (semver.Version, error) {
	doc, err := codec.TOML.Decode([]byte(text))
	if err != nil {
		return semver.Version{}, err
	}
	tool, ok := doc.Get("tool")
	if !ok {
		return semver.Version{}, fmt.Errorf("%w: no [tool.bumpversion]", version.ErrInvalid)
	}
	toolMap, ok := tool.(*document.Map)
	if !ok {
		return semver.Version{}, &document.TypeMismatchError{Key: "tool", Want: "mapping", Got: document.KindOf(tool)}
	}
	bumpversion, ok := toolMap.Get("bumpversion")
	if !ok {
		return semver.Version{}, fmt.Errorf("%w: no [tool.bumpversion]", version.ErrInvalid)
	}
	m, ok := bumpversion.(*document.Map)
	if !ok {
		return semver.Version{}, &document.TypeMismatchError{Key: "tool.bumpversion", Want: "mapping", Got: document.KindOf(bumpversion)}
	}
	return currentVersion(m)
}

// CheckVersions fails unless every version file that exists carries the
// current version of .bumpversion.toml.
func CheckVersions(ws *edit.Workspace) error {
	st, err := readBumpversion(ws)
	if err != nil {
		return err
	}
	want := st.current.String()
	for _, f := range st.files {
		data, err := os.ReadFile(ws.Path(f.Filename))
		if errors.Is(err, os.ErrNotExist) {
			ws.Logger.Debug("version file missing", zap.String("path", f.Filename))
			continue
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", f.Filename, err)
		}
		if !strings.Contains(string(data), f.SearchFor(want)) {
			return &InconsistentVersionsError{Want: want, File: f.Filename}
		}
	}
	return nil
}

// SetVersion moves the project to v: every existing version file has its
// search text for the current version replaced, then current_version is
// updated. A version file without the search text is an
// InconsistentVersionsError and nothing further is changed.
func SetVersion(ws *edit.Workspace, v semver.Version) error {
	st, err := readBumpversion(ws)
	if err != nil {
		return err
	}
	cur, next := st.current.String(), v.String()
	if cur != next {
		ws.Logger.Info("Setting version", zap.String("from", cur), zap.String("to", next))
	}

	for _, f := range st.files {
		if !ws.Exists(f.Filename) {
			ws.Logger.Debug("version file missing", zap.String("path", f.Filename))
			continue
		}
		search, replace := f.SearchFor(cur), f.ReplaceFor(next)
		if _, err := edit.EditText(ws, f.Filename, func(doc *document.Text) error {
			if !doc.Contains(search) {
				return &InconsistentVersionsError{Want: cur, File: f.Filename}
			}
			doc.Set(strings.Replace(doc.String(), search, replace, 1))
			return nil
		}); err != nil {
			return err
		}
	}

	_, err = recipe.EditBumpversion(ws, func(bumpversion *document.Map) error {
		bumpversion.Set("current_version", next)
		return nil
	})
	return err
}

// SyncVersion keeps the current version one bump ahead of the released
// version on ReleaseRef. The released version comes from the tag on the
// ref, else from .bumpversion.toml at the ref; when neither is available
// the project is set to the initial version. A release file that cannot be
// decoded is an error. A nil history behaves like a
// repository without releases.
func SyncVersion(ws *edit.Workspace, history History) error {
	prev, err := releasedVersion(history)
	if noRelease(err) {
		ws.Logger.Debug("no released version", zap.Error(err))
		return SetVersion(ws, version.Initial)
	}
	if err != nil {
		return fmt.Errorf("reading released version: %w", err)
	}
	st, err := readBumpversion(ws)
	if err != nil {
		return err
	}
	next, change := version.Next(prev, st.current)
	if !change {
		return nil
	}
	return SetVersion(ws, next)
}

func releasedVersion(history History) (semver.Version, error) {
	if history == nil {
		return semver.Version{}, errNoHistory
	}
	if v, err := history.TagVersionAt(ReleaseRef); err == nil {
		return v, nil
	}
	text, err := history.FileAt(ReleaseRef, recipe.BumpversionFile)
	if err != nil {
		return semver.Version{}, err
	}
	return versionFromBumpversion(text)
}

var errNoHistory = errors.New("not a git repository")

// noRelease reports whether err means ReleaseRef carries no release, as
// opposed to a release that cannot be read.
func noRelease(err error) bool {
	for _, target := range []error{errNoHistory, git.ErrNoVersion, git.ErrRefNotFound, git.ErrFileNotFound, version.ErrInvalid} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsTemplate reports whether root looks like a project template, whose
// version is never synced.
func IsTemplate(root string) bool {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return strings.Contains(abs, "template")
}
