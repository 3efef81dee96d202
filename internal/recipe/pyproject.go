package recipe

import (
	"github.com/conformalize/conformalize/internal/document"
	"github.com/conformalize/conformalize/internal/edit"
)

// Index is a named package index for [[tool.uv.index]].
type Index struct {
	Name string
	URL  string
}

// PyprojectOptions configures pyproject.toml.
type PyprojectOptions struct {
	PythonVersion string
	Description   string
	PackageName   string
	// Readme points project.readme at README.md.
	Readme                      bool
	OptionalDependenciesScripts bool
	// PythonPackageName, when set explicitly, configures the uv build
	// backend with PythonPackageNameUse as the module name.
	PythonPackageName    string
	PythonPackageNameUse string
	Indexes              []Index
}

// PyprojectTOML writes pyproject.toml.
func PyprojectTOML(ws *edit.Workspace, opts PyprojectOptions) (edit.State, error) {
	return edit.EditTOML(ws, PyprojectFile, func(doc *document.Map) error {
		buildSystem, err := document.GetOrCreateTable(doc, "build-system")
		if err != nil {
			return err
		}
		buildSystem.Set("build-backend", "uv_build")
		buildSystem.Set("requires", []string{"uv_build"})

		project, err := document.GetOrCreateTable(doc, "project")
		if err != nil {
			return err
		}
		project.Set("requires-python", ">= "+opts.PythonVersion)
		if opts.Description != "" {
			project.Set("description", opts.Description)
		}
		if opts.PackageName != "" {
			project.Set("name", opts.PackageName)
		}
		if opts.Readme {
			project.Set("readme", ReadmeFile)
		}
		project.SetDefault("version", InitialVersion)

		groups, err := document.GetOrCreateTable(doc, "dependency-groups")
		if err != nil {
			return err
		}
		dev, err := document.GetOrCreateSeq(groups, "dev")
		if err != nil {
			return err
		}
		if err := document.EnsureContains(dev, "dycw-utilities[test]", "rich"); err != nil {
			return err
		}

		if opts.OptionalDependenciesScripts {
			optional, err := document.GetOrCreateTable(project, "optional-dependencies")
			if err != nil {
				return err
			}
			scripts, err := document.GetOrCreateSeq(optional, "scripts")
			if err != nil {
				return err
			}
			if err := document.EnsureContains(scripts, "click >=8.3.1"); err != nil {
				return err
			}
		}

		if opts.PythonPackageName != "" {
			backend, err := document.GetPath(doc, "tool", "uv", "build-backend")
			if err != nil {
				return err
			}
			backend.Set("module-name", opts.PythonPackageNameUse)
			backend.Set("module-root", "src")
		}

		if len(opts.Indexes) > 0 {
			uv, err := document.GetPath(doc, "tool", "uv")
			if err != nil {
				return err
			}
			indexes, err := document.GetOrCreateTableSeq(uv, "index")
			if err != nil {
				return err
			}
			for _, idx := range opts.Indexes {
				document.EnsureTableSeqContains(indexes, document.MapOf(
					"explicit", true,
					"name", idx.Name,
					"url", idx.URL,
				))
			}
		}
		return nil
	})
}
