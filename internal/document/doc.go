// Package document holds the in-memory tree that every configuration file is
// loaded into: ordered mappings, sequences, TOML arrays of tables and scalars.
//
// The tree is format-neutral. Codecs in internal/codec translate between the
// tree and TOML, YAML or JSON text, keeping key order and comments where the
// format allows it. The helpers in this package (GetOrCreate*, Ensure*,
// FindUniquePartialMatch) are idempotent so that recipes can be applied on
// every run without producing duplicate entries.
//
// Equal is the one structural equality used both for locating entries and for
// deciding whether a file needs rewriting.
package document
