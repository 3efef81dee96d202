package document

import (
	"errors"
)

// EnsureContains appends each value to seq unless an equal value is already
// present. Existing items are never reordered. Arrays of tables must use
// EnsureTableSeqContains instead; passing one here is a TypeMismatchError.
func EnsureContains(seq Sequence, values ...any) error {
	s, ok := seq.(*Seq)
	if !ok {
		if _, isTables := seq.(*TableSeq); isTables {
			return &TypeMismatchError{Want: "sequence (use EnsureTableSeqContains for arrays of tables)", Got: KindOf(seq)}
		}
		return &TypeMismatchError{Want: "sequence", Got: KindOf(seq)}
	}
	for _, v := range values {
		if indexOf(s, v) < 0 {
			s.Append(v)
		}
	}
	return nil
}

// EnsureTableSeqContains appends each table to ts unless an equal table is
// already present.
func EnsureTableSeqContains(ts *TableSeq, tables ...*Map) {
	for _, t := range tables {
		if indexOf(ts, t) < 0 {
			ts.Append(t)
		}
	}
}

// EnsureAbsent removes the first item equal to each value. Absent values
// are ignored and only one copy is removed per value.
func EnsureAbsent(seq Sequence, values ...any) {
	for _, v := range values {
		if i := indexOf(seq, v); i >= 0 {
			seq.RemoveAt(i)
		}
	}
}

// EnsureContainsPartial returns the element of seq that partial matches.
// When there is none, a copy of partial updated with extra (extra wins on
// collisions) is appended and returned. An existing element is returned
// unmodified so that callers can extend it in place. Ambiguous matches are
// returned as errors.
func EnsureContainsPartial(seq *Seq, partial *Map, extra *Map) (*Map, error) {
	found, err := FindUniquePartialMatch(seq, partial)
	if err == nil {
		return found, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	m := CloneMap(partial)
	if extra != nil {
		m.Update(extra)
	}
	seq.Append(m)
	return m, nil
}

func indexOf(seq Sequence, v any) int {
	for i := range seq.Len() {
		if Equal(seq.At(i), v) {
			return i
		}
	}
	return -1
}
