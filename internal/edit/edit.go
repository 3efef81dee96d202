// Package edit implements the scoped read-mutate-write cycle that every
// recipe goes through. A file is loaded (or started empty), handed to a
// mutation function, compared structurally with what is on disk, and written
// atomically only when it changed.
package edit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/conformalize/conformalize/internal/codec"
	"github.com/conformalize/conformalize/internal/document"
)

// State is the outcome of an Edit.
type State int

const (
	// Unchanged means the mutated document equals the file on disk.
	Unchanged State = iota
	// Written means an existing file was replaced.
	Written
	// Created means the file did not exist and was written.
	Created
)

func (s State) String() string {
	switch s {
	case Written:
		return "written"
	case Created:
		return "created"
	}
	return "unchanged"
}

// Workspace is the project directory that recipes edit.
type Workspace struct {
	// Root is the project root; recipe paths are relative to it.
	Root string
	// Mods collects every path that was (or, in a dry run, would be) written.
	Mods   *ModificationSet
	Logger *zap.Logger
	// DryRun detects modifications without touching the disk.
	DryRun bool
}

// NewWorkspace returns a workspace rooted at root with an empty
// modification set. A nil logger discards output.
func NewWorkspace(root string, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workspace{Root: root, Mods: NewModificationSet(), Logger: logger}
}

// Path resolves a workspace-relative path.
func (ws *Workspace) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(ws.Root, filepath.FromSlash(rel))
}

// Exists reports whether rel exists in the workspace.
func (ws *Workspace) Exists(rel string) bool {
	_, err := os.Stat(ws.Path(rel))
	return err == nil
}

// Edit runs fn on the document stored at rel and persists the result if it
// differs from the file on disk. A missing file starts as c.Empty() and is
// always created. If fn fails, nothing is written and its error is returned
// as-is.
func Edit[T any](ws *Workspace, rel string, c codec.Codec[T], fn func(T) error) (State, error) {
	path := ws.Path(rel)

	doc, existed, err := load(path, c)
	if err != nil {
		return Unchanged, fmt.Errorf("loading %s: %w", rel, err)
	}
	if err := fn(doc); err != nil {
		return Unchanged, err
	}

	// The file is read again so that changes made while fn ran are compared
	// against, not overwritten blindly.
	current, existsNow, err := load(path, c)
	if err != nil {
		return Unchanged, fmt.Errorf("re-reading %s: %w", rel, err)
	}
	if existsNow && c.Equal(current, doc) {
		return Unchanged, nil
	}

	data, err := c.Encode(doc)
	if err != nil {
		return Unchanged, fmt.Errorf("encoding %s: %w", rel, err)
	}

	state := Written
	msg := "Modifying"
	if !existed || !existsNow {
		state = Created
		msg = "Writing"
	}
	ws.Logger.Info(msg, zap.String("path", rel), zap.String("format", c.Name()), zap.Bool("dry_run", ws.DryRun))
	ws.Mods.Add(rel)
	if ws.DryRun {
		return state, nil
	}
	if err := atomicWrite(path, data); err != nil {
		return Unchanged, fmt.Errorf("writing %s: %w", rel, err)
	}
	return state, nil
}

func load[T any](path string, c codec.Codec[T]) (T, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c.Empty(), false, nil
	}
	if err != nil {
		var zero T
		return zero, false, err
	}
	doc, err := c.Decode(data)
	if err != nil {
		var zero T
		return zero, true, err
	}
	return doc, true, nil
}

// EditTOML edits a TOML file.
func EditTOML(ws *Workspace, rel string, fn func(*document.Map) error) (State, error) {
	return Edit(ws, rel, codec.TOML, fn)
}

// EditYAML edits a YAML file.
func EditYAML(ws *Workspace, rel string, fn func(*document.Map) error) (State, error) {
	return Edit(ws, rel, codec.YAML, fn)
}

// EditJSON edits a JSON file.
func EditJSON(ws *Workspace, rel string, fn func(*document.Map) error) (State, error) {
	return Edit(ws, rel, codec.JSON, fn)
}

// EditText edits a plain-text file.
func EditText(ws *Workspace, rel string, fn func(*document.Text) error) (State, error) {
	return Edit(ws, rel, codec.Text, fn)
}

// Rename moves oldRel to newRel, replacing newRel if it exists, and records
// oldRel as modified.
func (ws *Workspace) Rename(oldRel, newRel string) error {
	ws.Logger.Info("Renaming", zap.String("from", oldRel), zap.String("to", newRel), zap.Bool("dry_run", ws.DryRun))
	ws.Mods.Add(oldRel)
	if ws.DryRun {
		return nil
	}
	if err := os.Rename(ws.Path(oldRel), ws.Path(newRel)); err != nil {
		return fmt.Errorf("renaming %s: %w", oldRel, err)
	}
	return nil
}
