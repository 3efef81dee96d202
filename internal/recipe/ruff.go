package recipe

import (
	"strings"

	"github.com/conformalize/conformalize/internal/document"
	"github.com/conformalize/conformalize/internal/edit"
)

// ruffIgnored are the lint rules switched off by default.
var ruffIgnored = []any{
	"ANN401",   // any-type
	"ASYNC109", // async-function-with-timeout
	"C901",     // complex-structure
	"CPY",      // flake8-copyright
	"D",        // pydocstyle
	"E501",     // line-too-long
	"PD",       // pandas-vet
	"PERF203",  // try-except-in-loop
	"PLC0415",  // import-outside-top-level
	"PLE1205",  // logging-too-many-args
	"PLR0904",  // too-many-public-methods
	"PLR0911",  // too-many-return-statements
	"PLR0912",  // too-many-branches
	"PLR0913",  // too-many-arguments
	"PLR0915",  // too-many-statements
	"PLR2004",  // magic-value-comparison
	"PT012",    // pytest-raises-with-multiple-statements
	"PT013",    // pytest-incorrect-pytest-import
	"PYI041",   // redundant-numeric-union
	"S202",     // tarfile-unsafe-members
	"S310",     // suspicious-url-open-usage
	"S311",     // suspicious-non-cryptographic-random-usage
	"S602",     // subprocess-popen-with-shell-equals-true
	"S603",     // subprocess-without-shell-equals-true
	"S607",     // start-process-with-partial-path
	// preview
	"S101", // assert
	// formatter
	"W191",   // tab-indentation
	"E111",   // indentation-with-invalid-multiple
	"E114",   // indentation-with-invalid-multiple-comment
	"E117",   // over-indented
	"COM812", // missing-trailing-comma
	"COM819", // prohibited-trailing-comma
	"ISC001", // single-line-implicit-string-concatenation
	"ISC002", // multi-line-implicit-string-concatenation
}

var (
	// ruffSelected are preview rules enabled explicitly.
	ruffSelected = []any{
		"RUF022", // unsorted-dunder-all
		"RUF029", // unused-async
	}
	ruffTestRules = []any{
		"S101",   // assert
		"SLF001", // private-member-access
	}
)

// RuffTOML writes ruff.toml for the given minimum Python version. Rules that
// are selected or ignored per file are taken out of the global ignore list.
func RuffTOML(ws *edit.Workspace, pythonVersion string) (edit.State, error) {
	return edit.EditTOML(ws, RuffFile, func(doc *document.Map) error {
		doc.Set("target-version", "py"+strings.ReplaceAll(pythonVersion, ".", ""))
		doc.Set("unsafe-fixes", true)

		format, err := document.GetOrCreateTable(doc, "format")
		if err != nil {
			return err
		}
		format.Set("preview", true)
		format.Set("skip-magic-trailing-comma", true)

		lint, err := document.GetOrCreateTable(doc, "lint")
		if err != nil {
			return err
		}
		lint.Set("explicit-preview-rules", true)
		fixable, err := document.GetOrCreateSeq(lint, "fixable")
		if err != nil {
			return err
		}
		if err := document.EnsureContains(fixable, "ALL"); err != nil {
			return err
		}
		ignore, err := document.GetOrCreateSeq(lint, "ignore")
		if err != nil {
			return err
		}
		if err := document.EnsureContains(ignore, ruffIgnored...); err != nil {
			return err
		}
		lint.Set("preview", true)
		sel, err := document.GetOrCreateSeq(lint, "select")
		if err != nil {
			return err
		}
		if err := document.EnsureContains(sel, append([]any{"ALL"}, ruffSelected...)...); err != nil {
			return err
		}

		perFile, err := document.GetOrCreateTable(lint, "extend-per-file-ignores")
		if err != nil {
			return err
		}
		testPy, err := document.GetOrCreateSeq(perFile, "test_*.py")
		if err != nil {
			return err
		}
		if err := document.EnsureContains(testPy, ruffTestRules...); err != nil {
			return err
		}
		document.EnsureAbsent(ignore, append(append([]any{}, ruffSelected...), ruffTestRules...)...)

		bugbear, err := document.GetOrCreateTable(lint, "flake8-bugbear")
		if err != nil {
			return err
		}
		immutable, err := document.GetOrCreateSeq(bugbear, "extend-immutable-calls")
		if err != nil {
			return err
		}
		if err := document.EnsureContains(immutable, "typing.cast"); err != nil {
			return err
		}
		tidy, err := document.GetOrCreateTable(lint, "flake8-tidy-imports")
		if err != nil {
			return err
		}
		tidy.Set("ban-relative-imports", "all")
		isort, err := document.GetOrCreateTable(lint, "isort")
		if err != nil {
			return err
		}
		required, err := document.GetOrCreateSeq(isort, "required-imports")
		if err != nil {
			return err
		}
		if err := document.EnsureContains(required, "from __future__ import annotations"); err != nil {
			return err
		}
		isort.Set("split-on-trailing-comma", false)
		return nil
	})
}
