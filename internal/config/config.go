// Package config provides layered settings for conformalize using koanf.
// Settings are loaded with priority: environment variables (CONFORMALIZE_*)
// > project settings file (.conformalize.yaml, or the legacy .conformalize.json)
// > defaults. Nesting levels in environment variable names are separated by "__".
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read as settings.
const EnvPrefix = "CONFORMALIZE_"

// Settings selects which conventions a repository follows. Every feature is
// off by default; a disabled feature never removes what an earlier run added.
type Settings struct {
	// Coverage sets up .coveragerc.toml and adds coverage options to pytest.
	Coverage bool `koanf:"coverage"`
	// Description is the repository description used in pyproject.toml and README.md.
	Description string `koanf:"description"`

	Envrc  EnvrcSettings  `koanf:"envrc"`
	GitHub GitHubSettings `koanf:"github"`

	// PackageName is the distribution name (project.name in pyproject.toml).
	PackageName string `koanf:"package_name" validate:"omitempty,package_name"`

	PreCommit PreCommitSettings `koanf:"pre_commit"`
	Pyproject PyprojectSettings `koanf:"pyproject"`

	// Pyright sets up pyrightconfig.json.
	Pyright bool           `koanf:"pyright"`
	Pytest  PytestSettings `koanf:"pytest"`

	// PythonPackageName overrides the import name derived from PackageName.
	PythonPackageName string `koanf:"python_package_name" validate:"omitempty,package_name"`
	// PythonVersion is the minimum supported Python version ("3.14").
	PythonVersion string `koanf:"python_version" validate:"required,python_version"`

	// Readme sets up README.md.
	Readme bool `koanf:"readme"`
	// RepoName is used as the README.md title.
	RepoName string `koanf:"repo_name"`
	// Ruff sets up ruff.toml.
	Ruff bool `koanf:"ruff"`
	// RunVersionBump keeps .bumpversion.toml ahead of the version on origin/master.
	RunVersionBump bool `koanf:"run_version_bump"`
	// Script targets a single script instead of a package.
	Script string `koanf:"script"`
}

// EnvrcSettings configures .envrc.
type EnvrcSettings struct {
	Enabled bool            `koanf:"enabled"`
	UV      EnvrcUVSettings `koanf:"uv"`
}

// EnvrcUVSettings configures the uv block of .envrc.
type EnvrcUVSettings struct {
	Enabled   bool `koanf:"enabled"`
	NativeTLS bool `koanf:"native_tls"`
	// ExtraArgs is appended to 'uv sync', split with shell quoting rules.
	ExtraArgs string `koanf:"extra_args"`
}

// GitHubSettings configures the GitHub workflows.
type GitHubSettings struct {
	PullRequest PullRequestSettings `koanf:"pull_request"`
	Push        PushSettings        `koanf:"push"`
}

// PullRequestSettings configures .github/workflows/pull-request.yaml.
type PullRequestSettings struct {
	PreCommit bool         `koanf:"pre_commit"`
	Pyright   bool         `koanf:"pyright"`
	Pytest    PytestMatrix `koanf:"pytest"`
	Ruff      bool         `koanf:"ruff"`
}

// PytestMatrix selects the pytest job matrix.
type PytestMatrix struct {
	// AllVersions adds every supported version from PythonVersion onwards.
	AllVersions   bool                `koanf:"all_versions"`
	OS            PytestOS            `koanf:"os"`
	PythonVersion PytestPythonVersion `koanf:"python_version"`
	Resolution    PytestResolution    `koanf:"resolution"`
}

// PytestOS selects the runners of the pytest job.
type PytestOS struct {
	MacOS   bool `koanf:"macos"`
	Ubuntu  bool `koanf:"ubuntu"`
	Windows bool `koanf:"windows"`
}

// PytestPythonVersion selects the Python versions of the pytest job.
type PytestPythonVersion struct {
	// Default adds Settings.PythonVersion.
	Default bool `koanf:"default"`
	V312    bool `koanf:"v3_12"`
	V313    bool `koanf:"v3_13"`
	V314    bool `koanf:"v3_14"`
}

// PytestResolution selects the uv resolution strategies of the pytest job.
type PytestResolution struct {
	Highest      bool `koanf:"highest"`
	LowestDirect bool `koanf:"lowest_direct"`
}

// PushSettings configures .github/workflows/push.yaml.
type PushSettings struct {
	Publish PublishSettings `koanf:"publish"`
	Tag     TagSettings     `koanf:"tag"`
}

// PublishSettings configures the publish job.
type PublishSettings struct {
	Enabled           bool `koanf:"enabled"`
	TrustedPublishing bool `koanf:"trusted_publishing"`
}

// TagSettings configures the tag job.
type TagSettings struct {
	Enabled    bool `koanf:"enabled"`
	Major      bool `koanf:"major"`
	MajorMinor bool `koanf:"major_minor"`
	Latest     bool `koanf:"latest"`
}

// PreCommitSettings selects optional hooks of .pre-commit-config.yaml.
type PreCommitSettings struct {
	Dockerfmt bool `koanf:"dockerfmt"`
	Dycw      bool `koanf:"dycw"`
	Prettier  bool `koanf:"prettier"`
	Ruff      bool `koanf:"ruff"`
	Shell     bool `koanf:"shell"`
	Taplo     bool `koanf:"taplo"`
	UV        bool `koanf:"uv"`
}

// PyprojectSettings configures pyproject.toml.
type PyprojectSettings struct {
	Enabled bool `koanf:"enabled"`
	// OptionalDependenciesScripts adds the 'scripts' extra.
	OptionalDependenciesScripts bool `koanf:"optional_dependencies_scripts"`
	// UVIndexes become [[tool.uv.index]] entries.
	UVIndexes []Index `koanf:"uv_indexes" validate:"dive"`
}

// Index is a named package index.
type Index struct {
	Name string `koanf:"name" validate:"required"`
	URL  string `koanf:"url" validate:"required,url"`
}

// PytestSettings configures pytest.toml.
type PytestSettings struct {
	Enabled        bool `koanf:"enabled"`
	Asyncio        bool `koanf:"asyncio"`
	IgnoreWarnings bool `koanf:"ignore_warnings"`
	// Timeout in seconds; nil leaves the timeout unset.
	Timeout *int `koanf:"timeout" validate:"omitempty,gte=0"`
}

// PythonPackageNameUse returns the import name: PythonPackageName if set,
// otherwise PackageName with dashes replaced by underscores. It is empty when
// neither is set.
func (s *Settings) PythonPackageNameUse() string {
	if s.PythonPackageName != "" {
		return s.PythonPackageName
	}
	return strings.ReplaceAll(s.PackageName, "-", "_")
}

// PullRequestEnabled reports whether any pull-request workflow job is selected.
func (s *Settings) PullRequestEnabled() bool {
	pr := s.GitHub.PullRequest
	return pr.PreCommit || pr.Pyright || pr.Ruff || pr.Pytest.Enabled()
}

// Enabled reports whether the pytest job is selected.
func (m PytestMatrix) Enabled() bool {
	return m.AllVersions ||
		m.OS.MacOS || m.OS.Ubuntu || m.OS.Windows ||
		m.PythonVersion.Default || m.PythonVersion.V312 || m.PythonVersion.V313 || m.PythonVersion.V314 ||
		m.Resolution.Highest || m.Resolution.LowestDirect
}

// PushEnabled reports whether any push workflow job is selected.
func (s *Settings) PushEnabled() bool {
	p := s.GitHub.Push
	return p.Publish.Enabled || p.Publish.TrustedPublishing ||
		p.Tag.Enabled || p.Tag.Major || p.Tag.MajorMinor || p.Tag.Latest
}

// PyprojectEnabled reports whether pyproject.toml is managed.
func (s *Settings) PyprojectEnabled() bool {
	return s.Pyproject.Enabled || s.Pyproject.OptionalDependenciesScripts || len(s.Pyproject.UVIndexes) > 0
}

// PytestEnabled reports whether pytest.toml is managed.
func (s *Settings) PytestEnabled() bool {
	return s.Pytest.Enabled || s.Pytest.Asyncio || s.Pytest.IgnoreWarnings || s.Pytest.Timeout != nil
}

// LoadOptions configures how settings are loaded
type LoadOptions struct {
	// Dir is the project root searched for the settings file (default: ".").
	Dir string
	// ConfigPath overrides the settings file; it must exist when set.
	ConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
	// SkipEnv ignores CONFORMALIZE_* environment variables.
	SkipEnv bool
}

// Load loads settings for the project in dir.
// Priority: Environment variables > Project settings file > Defaults
func Load(dir string) (*Settings, error) {
	return LoadWithOptions(LoadOptions{Dir: dir})
}

// LoadWithOptions loads settings with custom options
func LoadWithOptions(opts LoadOptions) (*Settings, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	path, err := loadProjectConfig(k, opts, warningWriter)
	if err != nil {
		return nil, err
	}

	if !opts.SkipEnv {
		if err := loadEnvironmentConfig(k); err != nil {
			return nil, err
		}
	}

	return finalizeConfig(k, path)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default settings values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		_ = k.Set(key, value)
	}
}

// loadProjectConfig loads the project settings file (YAML preferred, legacy
// JSON supported) and returns the path it used, if any.
func loadProjectConfig(k *koanf.Koanf, opts LoadOptions, warningWriter io.Writer) (string, error) {
	if opts.ConfigPath != "" {
		if !fileExists(opts.ConfigPath) {
			return "", fmt.Errorf("settings file %s does not exist", opts.ConfigPath)
		}
		if isJSON(opts.ConfigPath) {
			return opts.ConfigPath, loadJSONConfig(k, opts.ConfigPath)
		}
		return opts.ConfigPath, loadYAMLConfig(k, opts.ConfigPath)
	}

	yamlPath := ProjectConfigPath(opts.Dir)
	legacyPath := LegacyProjectConfigPath(opts.Dir)
	yamlExists := fileExists(yamlPath)
	legacyExists := fileExists(legacyPath)

	switch {
	case yamlExists:
		if err := loadYAMLConfig(k, yamlPath); err != nil {
			return "", err
		}
		if legacyExists && !opts.SkipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Legacy JSON settings found at %s (ignored, using %s)\n", legacyPath, yamlPath)
			fmt.Fprintf(warningWriter, "  Run 'conformalize config migrate' to remove the legacy file.\n\n")
		}
		return yamlPath, nil
	case legacyExists:
		if err := loadJSONConfig(k, legacyPath); err != nil {
			return "", err
		}
		if !opts.SkipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON settings at %s\n", legacyPath)
			fmt.Fprintf(warningWriter, "  Run 'conformalize config migrate' to migrate to YAML format.\n\n")
		}
		return legacyPath, nil
	}
	return "", nil
}

// loadYAMLConfig validates and loads a YAML settings file
func loadYAMLConfig(k *koanf.Koanf, path string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load settings %s: %w", path, err)
	}
	return nil
}

func loadJSONConfig(k *koanf.Koanf, path string) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load settings %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment settings: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged settings
func finalizeConfig(k *koanf.Koanf, path string) (*Settings, error) {
	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	source := path
	if source == "" {
		source = "settings"
	}
	if err := ValidateSettings(&s, source); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}
	return &s, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// envTransform converts environment variable names to settings keys.
// Example: CONFORMALIZE_GITHUB__PULL_REQUEST__RUFF -> github.pull_request.ruff
//
// CONFORMALIZE_PYPROJECT__UV_INDEXES holds comma-separated name=url pairs.
func envTransform(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if key == "pyproject.uv_indexes" {
		return key, parseIndexes(value)
	}
	return key, value
}

// parseIndexes parses "name=url,name=url". Malformed pairs keep an empty URL
// so that validation reports them.
func parseIndexes(value string) []interface{} {
	var out []interface{}
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, url, _ := strings.Cut(pair, "=")
		out = append(out, map[string]interface{}{
			"name": strings.TrimSpace(name),
			"url":  strings.TrimSpace(url),
		})
	}
	return out
}
