package recipe

import (
	"strconv"

	"github.com/conformalize/conformalize/internal/document"
	"github.com/conformalize/conformalize/internal/edit"
)

// PytestOptions configures pytest.toml.
type PytestOptions struct {
	Asyncio        bool
	IgnoreWarnings bool
	// Timeout in seconds; nil leaves it unset.
	Timeout *int
	// Coverage adds the coverage options when PythonPackageName is set.
	Coverage          bool
	PythonPackageName string
	Script            string
}

// PytestTOML writes pytest.toml.
func PytestTOML(ws *edit.Workspace, opts PytestOptions) (edit.State, error) {
	return edit.EditTOML(ws, PytestFile, func(doc *document.Map) error {
		pytest, err := document.GetOrCreateTable(doc, "pytest")
		if err != nil {
			return err
		}
		addopts, err := document.GetOrCreateSeq(pytest, "addopts")
		if err != nil {
			return err
		}
		if err := document.EnsureContains(addopts,
			"-ra", "-vv", "--color=auto", "--durations=10", "--durations-min=10",
		); err != nil {
			return err
		}
		if opts.Coverage && opts.PythonPackageName != "" {
			if err := document.EnsureContains(addopts,
				"--cov="+opts.PythonPackageName,
				"--cov-config="+CoveragercFile,
				"--cov-report=html",
			); err != nil {
				return err
			}
		}
		pytest.Set("collect_imported_tests", false)
		pytest.Set("empty_parameter_set_mark", "fail_at_collect")
		filterwarnings, err := document.GetOrCreateSeq(pytest, "filterwarnings")
		if err != nil {
			return err
		}
		if err := document.EnsureContains(filterwarnings, "error"); err != nil {
			return err
		}
		pytest.Set("minversion", "9.0")
		pytest.Set("strict", true)
		testpaths, err := document.GetOrCreateSeq(pytest, "testpaths")
		if err != nil {
			return err
		}
		testpath := "src/tests"
		if opts.Script != "" {
			testpath = "tests"
		}
		if err := document.EnsureContains(testpaths, testpath); err != nil {
			return err
		}
		pytest.Set("xfail_strict", true)

		if opts.Asyncio {
			pytest.Set("asyncio_default_fixture_loop_scope", "function")
			pytest.Set("asyncio_mode", "auto")
		}
		if opts.IgnoreWarnings {
			if err := document.EnsureContains(filterwarnings,
				"ignore::DeprecationWarning",
				"ignore::ResourceWarning",
				"ignore::RuntimeWarning",
			); err != nil {
				return err
			}
		}
		if opts.Timeout != nil {
			// pytest-timeout reads the ini value as a string.
			pytest.Set("timeout", strconv.Itoa(*opts.Timeout))
		}
		return nil
	})
}
