package config

// DefaultPythonVersion is the Python version used when none is configured.
const DefaultPythonVersion = "3.14"

// GetDefaultConfigTemplate returns a fully commented settings template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# conformalize settings
# See 'conformalize config keys' for all options. Every key can be overridden
# with an environment variable, e.g. CONFORMALIZE_GITHUB__PULL_REQUEST__RUFF=true

python_version: "3.14"                # Minimum supported Python version
package_name: ""                      # Distribution name (project.name)
python_package_name: ""               # Import name (default: package_name with '-' -> '_')
repo_name: ""                         # README.md title
description: ""                       # Repository description
script: ""                            # Single script instead of a package
run_version_bump: true                # Keep .bumpversion.toml ahead of origin/master

# Files
coverage: false                       # .coveragerc.toml
pyright: false                        # pyrightconfig.json
readme: false                         # README.md
ruff: false                           # ruff.toml

envrc:
  enabled: false                      # .envrc
  uv:
    enabled: false                    # uv block in .envrc
    native_tls: false                 # pass --native-tls to 'uv sync'
    extra_args: ""                    # extra 'uv sync' arguments

pyproject:
  enabled: false                      # pyproject.toml
  optional_dependencies_scripts: false
  uv_indexes: []                      # [{name: ..., url: ...}]

pytest:
  enabled: false                      # pytest.toml
  asyncio: false
  ignore_warnings: false
  # timeout: 600                      # seconds

pre_commit:
  dockerfmt: false
  dycw: false
  prettier: false
  ruff: false
  shell: false
  taplo: false
  uv: false

github:
  pull_request:
    pre_commit: false
    pyright: false
    ruff: false
    pytest:
      all_versions: false
      os:
        macos: false
        ubuntu: false
        windows: false
      python_version:
        default: false
        v3_12: false
        v3_13: false
        v3_14: false
      resolution:
        highest: false
        lowest_direct: false
  push:
    publish:
      enabled: false
      trusted_publishing: false
    tag:
      enabled: false
      major: false
      major_minor: false
      latest: false
`
}

// GetDefaults returns the default settings values.
// Keys not listed here default to their zero value.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"python_version":   DefaultPythonVersion,
		"run_version_bump": true,
	}
}
