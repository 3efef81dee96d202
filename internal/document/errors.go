package document

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no element of a sequence partially
	// matches the requested spec.
	ErrNotFound = errors.New("no matching element")
	// ErrAmbiguousMatch is returned when more than one element partially
	// matches. It means the file was edited by hand into an inconsistent
	// state.
	ErrAmbiguousMatch = errors.New("more than one matching element")
	// ErrTypeMismatch is returned when a key holds a value of the wrong kind.
	ErrTypeMismatch = errors.New("type mismatch")
)

// MatchError carries the context of a failed FindUniquePartialMatch.
type MatchError struct {
	// Partial is the spec that was searched for.
	Partial *Map
	// Candidates is the sequence that was searched.
	Candidates Sequence
	// First and Second are the first two matches for an ambiguous match.
	First, Second any
	err           error
}

func (e *MatchError) Error() string {
	if errors.Is(e.err, ErrAmbiguousMatch) {
		return fmt.Sprintf("expected %s to contain %s uniquely (as a partial); got %s, %s and perhaps more",
			Format(e.Candidates), Format(e.Partial), Format(e.First), Format(e.Second))
	}
	return fmt.Sprintf("expected %s to contain %s (as a partial)", Format(e.Candidates), Format(e.Partial))
}

func (e *MatchError) Unwrap() error {
	return e.err
}

// TypeMismatchError reports a key whose value is not of the requested kind.
type TypeMismatchError struct {
	Key  string
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("expected %s, got %s", e.Want, e.Got)
	}
	return fmt.Sprintf("key %q: expected %s, got %s", e.Key, e.Want, e.Got)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// KindOf names the kind of v for error messages.
func KindOf(v any) string {
	switch v.(type) {
	case *Map:
		return "mapping"
	case *Seq:
		return "sequence"
	case *TableSeq:
		return "array of tables"
	case string, Block:
		return "string"
	case bool:
		return "bool"
	case int64, int:
		return "integer"
	case float64:
		return "float"
	case DateTime:
		return "datetime"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
