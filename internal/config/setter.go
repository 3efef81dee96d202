package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conformalize/conformalize/internal/document"
	"github.com/conformalize/conformalize/internal/edit"
)

// ErrEmptyKeyPath is returned for an empty settings key.
var ErrEmptyKeyPath = errors.New("empty key path")

// ParseKeyPath splits a dotted settings key into its segments.
func ParseKeyPath(path string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyKeyPath
	}
	parts := strings.Split(path, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("invalid key path %q: empty segment", path)
		}
	}
	return parts, nil
}

// SetNestedValue sets value at keyPath inside doc, creating intermediate
// mappings. A scalar in the way is a type mismatch, never overwritten.
func SetNestedValue(doc *document.Map, keyPath []string, value any) error {
	if len(keyPath) == 0 {
		return ErrEmptyKeyPath
	}
	m, err := document.GetPath(doc, keyPath[:len(keyPath)-1]...)
	if err != nil {
		return err
	}
	m.Set(keyPath[len(keyPath)-1], value)
	return nil
}

// SetConfigValue validates value for key and writes it into the settings file
// rel of ws. Comments and the order of existing keys are kept, and nothing is
// written when the file already holds the value.
func SetConfigValue(ws *edit.Workspace, rel, key, value string) (edit.State, error) {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return edit.Unchanged, err
	}
	keyPath, err := ParseKeyPath(key)
	if err != nil {
		return edit.Unchanged, err
	}
	return edit.EditYAML(ws, rel, func(doc *document.Map) error {
		return SetNestedValue(doc, keyPath, parsed.Parsed)
	})
}
