// Package codec converts configuration files between their on-disk text and
// the document tree. TOML keeps key order and comments, YAML keeps key order,
// head/line comments and literal blocks, JSON keeps key order, and plain text
// is kept verbatim.
package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/conformalize/conformalize/internal/document"
)

// Codec loads and dumps one file format.
type Codec[T any] interface {
	// Name is the format name used in messages.
	Name() string
	// Empty returns the document used when the file does not exist.
	Empty() T
	// Decode parses file content.
	Decode(data []byte) (T, error)
	// Encode serializes a document. Values the format cannot represent
	// fail with a *SerializationError.
	Encode(doc T) ([]byte, error)
	// Equal is the structural comparison used for change detection.
	Equal(a, b T) bool
}

// The supported codecs.
var (
	TOML Codec[*document.Map]  = tomlCodec{}
	YAML Codec[*document.Map]  = yamlCodec{}
	JSON Codec[*document.Map]  = jsonCodec{}
	Text Codec[*document.Text] = textCodec{}
)

// ErrSerialization is wrapped by every *SerializationError.
var ErrSerialization = errors.New("cannot serialize value")

// ErrUnknownFormat is returned by ForPath for unrecognized extensions.
var ErrUnknownFormat = errors.New("unknown file format")

// SerializationError reports a value that a format cannot represent.
type SerializationError struct {
	Format string
	// Key is the dotted path of the offending value.
	Key   string
	Value any
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%s: cannot represent %s value at %q", e.Format, document.KindOf(e.Value), e.Key)
}

func (e *SerializationError) Unwrap() error {
	return ErrSerialization
}

// ForPath picks the mapping codec for a file by its extension.
func ForPath(path string) (Codec[*document.Map], error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

func joinKey(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func mapEqual(a, b *document.Map) bool {
	return document.Equal(a, b)
}
