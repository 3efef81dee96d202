package recipe

import (
	"strings"

	"github.com/conformalize/conformalize/internal/document"
	"github.com/conformalize/conformalize/internal/edit"
)

// ReadmeMD writes README.md as a title followed by the description. Either
// part is left out when empty. The file is overwritten as a whole.
func ReadmeMD(ws *edit.Workspace, name, description string) (edit.State, error) {
	var parts []string
	if name != "" {
		parts = append(parts, "# `"+name+"`")
	}
	if description != "" {
		parts = append(parts, description)
	}
	return edit.EditText(ws, ReadmeFile, func(doc *document.Text) error {
		doc.Set(strings.Join(parts, "\n\n"))
		return nil
	})
}
