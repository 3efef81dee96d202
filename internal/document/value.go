package document

import (
	"math"
	"strings"
)

// Block is a multi-line string that YAML writes in literal block style (|).
// It compares equal to a plain string with the same text.
type Block string

// DateTime is a TOML date, time or date-time literal kept verbatim.
type DateTime string

// Normalize converts convenient Go values into the types the tree stores:
// sized integers become int64, float32 becomes float64 and string slices
// become *Seq. Other values are returned unchanged; codecs reject the ones
// they cannot represent.
func Normalize(v any) any {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case float32:
		return float64(t)
	case []string:
		s := &Seq{items: make([]any, 0, len(t))}
		for _, item := range t {
			s.items = append(s.items, item)
		}
		return s
	case []any:
		return SeqOf(t...)
	}
	return v
}

// Clone returns a deep copy of v. Scalars are returned as-is.
func Clone(v any) any {
	switch t := v.(type) {
	case *Map:
		if t == nil {
			return t
		}
		out := &Map{
			keys:        make([]string, 0, len(t.keys)),
			entries:     make(map[string]*Entry, len(t.keys)),
			Comments:    cloneStrings(t.Comments),
			Inline:      t.Inline,
			Trailer:     cloneStrings(t.Trailer),
			InlineStyle: t.InlineStyle,
		}
		for _, k := range t.keys {
			e := t.entries[k]
			out.keys = append(out.keys, k)
			out.entries[k] = &Entry{
				Key:      k,
				Value:    Clone(e.Value),
				Comments: cloneStrings(e.Comments),
				Inline:   e.Inline,
			}
		}
		return out
	case *Seq:
		if t == nil {
			return t
		}
		out := &Seq{items: make([]any, 0, len(t.items)), Trailer: cloneStrings(t.Trailer)}
		for _, item := range t.items {
			out.items = append(out.items, Clone(item))
		}
		for _, n := range t.notes {
			out.notes = append(out.notes, ItemComments{Comments: cloneStrings(n.Comments), Inline: n.Inline})
		}
		return out
	case *TableSeq:
		if t == nil {
			return t
		}
		out := &TableSeq{tables: make([]*Map, 0, len(t.tables))}
		for _, m := range t.tables {
			out.tables = append(out.tables, Clone(m).(*Map))
		}
		return out
	}
	return v
}

// CloneMap is Clone for maps.
func CloneMap(m *Map) *Map {
	return Clone(m).(*Map)
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// Equal reports whether a and b are structurally equal. Map key order and
// comments are ignored; sequence order is significant and an array of
// tables equals a plain sequence of the same maps; strings and blocks
// compare by text; integers and floats compare numerically.
func Equal(a, b any) bool {
	a, b = Normalize(a), Normalize(b)
	switch x := a.(type) {
	case *Map:
		y, ok := b.(*Map)
		if !ok {
			return false
		}
		if x.Len() != y.Len() {
			return false
		}
		for _, e := range x.Entries() {
			other, ok := y.Get(e.Key)
			if !ok || !Equal(e.Value, other) {
				return false
			}
		}
		return true
	case *Seq, *TableSeq:
		// An array of tables and a plain array holding the same maps are
		// the same TOML value.
		xs := x.(Sequence)
		ys, ok := b.(Sequence)
		if !ok || xs.Len() != ys.Len() {
			return false
		}
		for i := range xs.Len() {
			if !Equal(xs.At(i), ys.At(i)) {
				return false
			}
		}
		return true
	case string, Block:
		xs, _ := text(a)
		ys, ok := text(b)
		return ok && xs == ys
	case int64, float64:
		xf, _ := number(a)
		yf, ok := number(b)
		return ok && xf == yf
	case DateTime:
		y, ok := b.(DateTime)
		return ok && strings.EqualFold(string(x), string(y))
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case nil:
		return b == nil
	}
	// Values the tree does not know about: fall back to Go equality for
	// comparable types.
	defer func() { _ = recover() }()
	return a == b
}

func text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case Block:
		return string(t), true
	}
	return "", false
}

func number(v any) (float64, bool) {
	switch t := Normalize(v).(type) {
	case int64:
		return float64(t), true
	case float64:
		if math.IsNaN(t) {
			return 0, false
		}
		return t, true
	}
	return 0, false
}
