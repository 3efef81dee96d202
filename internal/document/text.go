package document

import "strings"

// Text is a plain-text document such as a README or a shell script.
type Text struct {
	body string
}

// NewText returns a text document holding body.
func NewText(body string) *Text {
	return &Text{body: body}
}

// String returns the current content.
func (t *Text) String() string {
	return t.body
}

// Set replaces the content.
func (t *Text) Set(body string) {
	t.body = body
}

// Contains reports whether block occurs in the content.
func (t *Text) Contains(block string) bool {
	return strings.Contains(t.body, strings.TrimRight(block, "\n"))
}

// AppendBlock appends block unless it is already present, separated from
// the existing content by blankLines empty lines.
func (t *Text) AppendBlock(block string, blankLines int) {
	block = strings.TrimRight(block, "\n")
	if t.Contains(block) {
		return
	}
	body := strings.TrimRight(t.body, "\n")
	if body == "" {
		t.body = block + "\n"
		return
	}
	t.body = body + strings.Repeat("\n", blankLines+1) + block + "\n"
}

// TextEqual compares two texts ignoring trailing newlines.
func TextEqual(a, b *Text) bool {
	return strings.TrimRight(a.String(), "\n") == strings.TrimRight(b.String(), "\n")
}
