package document

import "slices"

// Sequence is the common view of Seq and TableSeq used by the helpers that
// work on either.
type Sequence interface {
	Len() int
	At(i int) any
	RemoveAt(i int)
}

// Seq is an ordered list of values.
type Seq struct {
	items []any
	// notes[i] belongs to items[i]; items past the end of notes carry none.
	notes []ItemComments
	// Trailer holds comments after the last item.
	Trailer []string
}

// ItemComments are the comments attached to one item of a Seq.
type ItemComments struct {
	// Comments are full-line comments that precede the item.
	Comments []string
	// Inline is a comment on the same line as the item.
	Inline string
}

func (c ItemComments) empty() bool {
	return len(c.Comments) == 0 && c.Inline == ""
}

// NewSeq returns an empty sequence.
func NewSeq() *Seq {
	return &Seq{}
}

// SeqOf returns a sequence holding values, normalized.
func SeqOf(values ...any) *Seq {
	s := &Seq{items: make([]any, 0, len(values))}
	for _, v := range values {
		s.Append(v)
	}
	return s
}

// Len returns the number of items.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// At returns item i.
func (s *Seq) At(i int) any {
	return s.items[i]
}

// Items returns a copy of the items.
func (s *Seq) Items() []any {
	if s == nil {
		return nil
	}
	return slices.Clone(s.items)
}

// Append adds v at the end.
func (s *Seq) Append(v any) {
	s.items = append(s.items, Normalize(v))
}

// SetAt replaces item i.
func (s *Seq) SetAt(i int, v any) {
	s.items[i] = Normalize(v)
}

// RemoveAt deletes item i together with its comments.
func (s *Seq) RemoveAt(i int) {
	s.items = slices.Delete(s.items, i, i+1)
	if i < len(s.notes) {
		s.notes = slices.Delete(s.notes, i, i+1)
	}
}

// CommentsAt returns the comments of item i.
func (s *Seq) CommentsAt(i int) ItemComments {
	if i < len(s.notes) {
		return s.notes[i]
	}
	return ItemComments{}
}

// SetCommentsAt replaces the comments of item i.
func (s *Seq) SetCommentsAt(i int, c ItemComments) {
	for len(s.notes) <= i {
		s.notes = append(s.notes, ItemComments{})
	}
	s.notes[i] = c
}

// HasComments reports whether any item or the trailer carries a comment.
func (s *Seq) HasComments() bool {
	if s == nil {
		return false
	}
	if len(s.Trailer) > 0 {
		return true
	}
	for _, n := range s.notes {
		if !n.empty() {
			return true
		}
	}
	return false
}

// Strings returns the string items, skipping anything else.
func (s *Seq) Strings() []string {
	var out []string
	for _, v := range s.Items() {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case Block:
			out = append(out, string(t))
		}
	}
	return out
}

// TableSeq is a TOML array of tables ([[name]] sections).
type TableSeq struct {
	tables []*Map
}

// NewTableSeq returns an empty array of tables.
func NewTableSeq() *TableSeq {
	return &TableSeq{}
}

// Len returns the number of tables.
func (t *TableSeq) Len() int {
	if t == nil {
		return 0
	}
	return len(t.tables)
}

// At returns table i as an any, to satisfy Sequence.
func (t *TableSeq) At(i int) any {
	return t.tables[i]
}

// Table returns table i.
func (t *TableSeq) Table(i int) *Map {
	return t.tables[i]
}

// Tables returns a copy of the table slice.
func (t *TableSeq) Tables() []*Map {
	if t == nil {
		return nil
	}
	return slices.Clone(t.tables)
}

// Append adds a table at the end.
func (t *TableSeq) Append(m *Map) {
	m.InlineStyle = false
	t.tables = append(t.tables, m)
}

// RemoveAt deletes table i.
func (t *TableSeq) RemoveAt(i int) {
	t.tables = slices.Delete(t.tables, i, i+1)
}
