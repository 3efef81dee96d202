package recipe

import (
	"github.com/conformalize/conformalize/internal/document"
	"github.com/conformalize/conformalize/internal/edit"
)

// CoveragercTOML writes .coveragerc.toml.
func CoveragercTOML(ws *edit.Workspace) (edit.State, error) {
	return edit.EditTOML(ws, CoveragercFile, func(doc *document.Map) error {
		html, err := document.GetOrCreateTable(doc, "html")
		if err != nil {
			return err
		}
		html.Set("directory", ".coverage/html")

		report, err := document.GetOrCreateTable(doc, "report")
		if err != nil {
			return err
		}
		excludeAlso, err := document.GetOrCreateSeq(report, "exclude_also")
		if err != nil {
			return err
		}
		if err := document.EnsureContains(excludeAlso, "@overload", "if TYPE_CHECKING:"); err != nil {
			return err
		}
		report.Set("fail_under", 100.0)
		report.Set("skip_covered", true)
		report.Set("skip_empty", true)

		run, err := document.GetOrCreateTable(doc, "run")
		if err != nil {
			return err
		}
		run.Set("branch", true)
		run.Set("data_file", ".coverage/data")
		run.Set("parallel", true)
		return nil
	})
}
