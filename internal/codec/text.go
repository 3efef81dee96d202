package codec

import (
	"strings"

	"github.com/conformalize/conformalize/internal/document"
)

type textCodec struct{}

func (textCodec) Name() string { return "text" }

func (textCodec) Empty() *document.Text { return document.NewText("") }

func (textCodec) Decode(data []byte) (*document.Text, error) {
	return document.NewText(string(data)), nil
}

// Encode writes the text with exactly one trailing newline.
func (textCodec) Encode(doc *document.Text) ([]byte, error) {
	return []byte(strings.TrimRight(doc.String(), "\n") + "\n"), nil
}

func (textCodec) Equal(a, b *document.Text) bool {
	return document.TextEqual(a, b)
}
