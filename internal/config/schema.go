package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ConfigValueType defines the expected type for a settings value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeString
	TypePythonVersion
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypePythonVersion:
		return "python-version"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known settings key with its expected type.
type ConfigKeySchema struct {
	Path        string          // Dotted key path (e.g., "pytest.timeout")
	Type        ConfigValueType // Expected value type for validation
	Description string          // Human-readable description for help text
	Default     interface{}     // Default value
}

// KnownKeys is the registry of scalar settings keys that 'config set' accepts.
// List-valued keys (pyproject.uv_indexes) are edited in the settings file directly.
var KnownKeys = map[string]ConfigKeySchema{
	"coverage": {
		Path:        "coverage",
		Type:        TypeBool,
		Description: "Set up .coveragerc.toml",
		Default:     false,
	},
	"description": {
		Path:        "description",
		Type:        TypeString,
		Description: "Repository description",
		Default:     "",
	},
	"envrc.enabled": {
		Path:        "envrc.enabled",
		Type:        TypeBool,
		Description: "Set up .envrc",
		Default:     false,
	},
	"envrc.uv.enabled": {
		Path:        "envrc.uv.enabled",
		Type:        TypeBool,
		Description: "Set up .envrc with uv",
		Default:     false,
	},
	"envrc.uv.native_tls": {
		Path:        "envrc.uv.native_tls",
		Type:        TypeBool,
		Description: "Set up .envrc with uv native TLS",
		Default:     false,
	},
	"envrc.uv.extra_args": {
		Path:        "envrc.uv.extra_args",
		Type:        TypeString,
		Description: "Extra 'uv sync' arguments in .envrc",
		Default:     "",
	},
	"github.pull_request.pre_commit": {
		Path:        "github.pull_request.pre_commit",
		Type:        TypeBool,
		Description: "Set up pull-request.yaml pre-commit",
		Default:     false,
	},
	"github.pull_request.pyright": {
		Path:        "github.pull_request.pyright",
		Type:        TypeBool,
		Description: "Set up pull-request.yaml pyright",
		Default:     false,
	},
	"github.pull_request.ruff": {
		Path:        "github.pull_request.ruff",
		Type:        TypeBool,
		Description: "Set up pull-request.yaml ruff",
		Default:     false,
	},
	"github.pull_request.pytest.all_versions": {
		Path:        "github.pull_request.pytest.all_versions",
		Type:        TypeBool,
		Description: "Set up pull-request.yaml pytest with all supported versions",
		Default:     false,
	},
	"github.pull_request.pytest.os.macos": {
		Path:        "github.pull_request.pytest.os.macos",
		Type:        TypeBool,
		Description: "Set up pull-request.yaml pytest with macOS",
		Default:     false,
	},
	"github.pull_request.pytest.os.ubuntu": {
		Path:        "github.pull_request.pytest.os.ubuntu",
		Type:        TypeBool,
		Description: "Set up pull-request.yaml pytest with Ubuntu",
		Default:     false,
	},
	"github.pull_request.pytest.os.windows": {
		Path:        "github.pull_request.pytest.os.windows",
		Type:        TypeBool,
		Description: "Set up pull-request.yaml pytest with Windows",
		Default:     false,
	},
	"github.pull_request.pytest.python_version.default": {
		Path:        "github.pull_request.pytest.python_version.default",
		Type:        TypeBool,
		Description: "Set up pull-request.yaml pytest with the configured Python version",
		Default:     false,
	},
	"github.pull_request.pytest.python_version.v3_12": {
		Path:        "github.pull_request.pytest.python_version.v3_12",
		Type:        TypeBool,
		Description: "Set up pull-request.yaml pytest with Python 3.12",
		Default:     false,
	},
	"github.pull_request.pytest.python_version.v3_13": {
		Path:        "github.pull_request.pytest.python_version.v3_13",
		Type:        TypeBool,
		Description: "Set up pull-request.yaml pytest with Python 3.13",
		Default:     false,
	},
	"github.pull_request.pytest.python_version.v3_14": {
		Path:        "github.pull_request.pytest.python_version.v3_14",
		Type:        TypeBool,
		Description: "Set up pull-request.yaml pytest with Python 3.14",
		Default:     false,
	},
	"github.pull_request.pytest.resolution.highest": {
		Path:        "github.pull_request.pytest.resolution.highest",
		Type:        TypeBool,
		Description: "Set up pull-request.yaml pytest with the highest resolution",
		Default:     false,
	},
	"github.pull_request.pytest.resolution.lowest_direct": {
		Path:        "github.pull_request.pytest.resolution.lowest_direct",
		Type:        TypeBool,
		Description: "Set up pull-request.yaml pytest with the lowest-direct resolution",
		Default:     false,
	},
	"github.push.publish.enabled": {
		Path:        "github.push.publish.enabled",
		Type:        TypeBool,
		Description: "Set up push.yaml publishing",
		Default:     false,
	},
	"github.push.publish.trusted_publishing": {
		Path:        "github.push.publish.trusted_publishing",
		Type:        TypeBool,
		Description: "Set up push.yaml with trusted publishing",
		Default:     false,
	},
	"github.push.tag.enabled": {
		Path:        "github.push.tag.enabled",
		Type:        TypeBool,
		Description: "Set up push.yaml tagging",
		Default:     false,
	},
	"github.push.tag.major": {
		Path:        "github.push.tag.major",
		Type:        TypeBool,
		Description: "Set up push.yaml with the 'major' tag",
		Default:     false,
	},
	"github.push.tag.major_minor": {
		Path:        "github.push.tag.major_minor",
		Type:        TypeBool,
		Description: "Set up push.yaml with the 'major.minor' tag",
		Default:     false,
	},
	"github.push.tag.latest": {
		Path:        "github.push.tag.latest",
		Type:        TypeBool,
		Description: "Set up push.yaml with the 'latest' tag",
		Default:     false,
	},
	"package_name": {
		Path:        "package_name",
		Type:        TypeString,
		Description: "Distribution name",
		Default:     "",
	},
	"pre_commit.dockerfmt": {
		Path:        "pre_commit.dockerfmt",
		Type:        TypeBool,
		Description: "Set up .pre-commit-config.yaml dockerfmt",
		Default:     false,
	},
	"pre_commit.dycw": {
		Path:        "pre_commit.dycw",
		Type:        TypeBool,
		Description: "Set up .pre-commit-config.yaml dycw hooks",
		Default:     false,
	},
	"pre_commit.prettier": {
		Path:        "pre_commit.prettier",
		Type:        TypeBool,
		Description: "Set up .pre-commit-config.yaml prettier",
		Default:     false,
	},
	"pre_commit.ruff": {
		Path:        "pre_commit.ruff",
		Type:        TypeBool,
		Description: "Set up .pre-commit-config.yaml ruff",
		Default:     false,
	},
	"pre_commit.shell": {
		Path:        "pre_commit.shell",
		Type:        TypeBool,
		Description: "Set up .pre-commit-config.yaml shfmt and shellcheck",
		Default:     false,
	},
	"pre_commit.taplo": {
		Path:        "pre_commit.taplo",
		Type:        TypeBool,
		Description: "Set up .pre-commit-config.yaml taplo",
		Default:     false,
	},
	"pre_commit.uv": {
		Path:        "pre_commit.uv",
		Type:        TypeBool,
		Description: "Set up .pre-commit-config.yaml uv-lock",
		Default:     false,
	},
	"pyproject.enabled": {
		Path:        "pyproject.enabled",
		Type:        TypeBool,
		Description: "Set up pyproject.toml",
		Default:     false,
	},
	"pyproject.optional_dependencies_scripts": {
		Path:        "pyproject.optional_dependencies_scripts",
		Type:        TypeBool,
		Description: "Set up pyproject.toml [project.optional-dependencies] scripts",
		Default:     false,
	},
	"pyright": {
		Path:        "pyright",
		Type:        TypeBool,
		Description: "Set up pyrightconfig.json",
		Default:     false,
	},
	"pytest.enabled": {
		Path:        "pytest.enabled",
		Type:        TypeBool,
		Description: "Set up pytest.toml",
		Default:     false,
	},
	"pytest.asyncio": {
		Path:        "pytest.asyncio",
		Type:        TypeBool,
		Description: "Set up pytest.toml asyncio options",
		Default:     false,
	},
	"pytest.ignore_warnings": {
		Path:        "pytest.ignore_warnings",
		Type:        TypeBool,
		Description: "Set up pytest.toml warning filters",
		Default:     false,
	},
	"pytest.timeout": {
		Path:        "pytest.timeout",
		Type:        TypeInt,
		Description: "pytest timeout in seconds",
		Default:     nil,
	},
	"python_package_name": {
		Path:        "python_package_name",
		Type:        TypeString,
		Description: "Import name override",
		Default:     "",
	},
	"python_version": {
		Path:        "python_version",
		Type:        TypePythonVersion,
		Description: "Minimum supported Python version",
		Default:     DefaultPythonVersion,
	},
	"readme": {
		Path:        "readme",
		Type:        TypeBool,
		Description: "Set up README.md",
		Default:     false,
	},
	"repo_name": {
		Path:        "repo_name",
		Type:        TypeString,
		Description: "Repository name (README.md title)",
		Default:     "",
	},
	"ruff": {
		Path:        "ruff",
		Type:        TypeBool,
		Description: "Set up ruff.toml",
		Default:     false,
	},
	"run_version_bump": {
		Path:        "run_version_bump",
		Type:        TypeBool,
		Description: "Keep .bumpversion.toml ahead of origin/master",
		Default:     true,
	},
	"script": {
		Path:        "script",
		Type:        TypeString,
		Description: "Set up a script instead of a package",
		Default:     "",
	},
}

// ErrUnknownKey is returned when trying to access an unknown settings key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known settings key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// SortedKeys returns the registered keys in lexical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ParsedValue represents a settings value after validation.
type ParsedValue struct {
	Raw    string      // Original string input from user
	Parsed interface{} // Value converted to correct type
	Type   ConfigValueType
}

// ValidateValue validates a value against the schema for a given key.
// Returns the parsed value or an error with details about what's wrong.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	return validateAgainstSchema(schema, value)
}

// validateAgainstSchema validates a value against a specific schema.
func validateAgainstSchema(schema ConfigKeySchema, value string) (ParsedValue, error) {
	switch schema.Type {
	case TypeBool:
		return parseBoolValue(value)
	case TypeInt:
		return parseIntValue(value)
	case TypePythonVersion:
		return parsePythonVersionValue(value)
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", schema.Type)
	}
}

// parseBoolValue parses and validates a boolean value.
func parseBoolValue(value string) (ParsedValue, error) {
	switch strings.ToLower(value) {
	case "true":
		return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
	case "false":
		return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
	default:
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	}
}

// parseIntValue parses and validates a non-negative integer value.
func parseIntValue(value string) (ParsedValue, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return ParsedValue{}, fmt.Errorf("invalid integer: %q", value)
	}
	return ParsedValue{Raw: value, Parsed: n, Type: TypeInt}, nil
}

// parsePythonVersionValue keeps the version a string so "3.10" is not read as 3.1.
func parsePythonVersionValue(value string) (ParsedValue, error) {
	if !pythonVersionRe.MatchString(value) {
		return ParsedValue{}, fmt.Errorf("invalid Python version: %q (expected MAJOR.MINOR, e.g. 3.14)", value)
	}
	return ParsedValue{Raw: value, Parsed: value, Type: TypePythonVersion}, nil
}
