// Package recipe holds one function per managed file. A recipe describes the
// content a file must have as idempotent mutations of the loaded document, so
// applying it to a conforming file changes nothing. Recipes take plain option
// structs and never read settings themselves.
package recipe

// Paths of the managed files, relative to the repository root.
const (
	BumpversionFile     = ".bumpversion.toml"
	CoveragercFile      = ".coveragerc.toml"
	EnvrcFile           = ".envrc"
	WorkflowsDir        = ".github/workflows"
	PullRequestFile     = WorkflowsDir + "/pull-request.yaml"
	PushFile            = WorkflowsDir + "/push.yaml"
	PreCommitConfigFile = ".pre-commit-config.yaml"
	PyprojectFile       = "pyproject.toml"
	PyrightconfigFile   = "pyrightconfig.json"
	PytestFile          = "pytest.toml"
	ReadmeFile          = "README.md"
	RuffFile            = "ruff.toml"
)
