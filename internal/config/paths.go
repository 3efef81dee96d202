package config

import (
	"path/filepath"
)

const (
	// ProjectConfigFile is the settings file name at the project root.
	ProjectConfigFile = ".conformalize.yaml"
	// LegacyProjectConfigFile is the deprecated JSON settings file name.
	LegacyProjectConfigFile = ".conformalize.json"
)

// ProjectConfigPath returns the path to the project settings file in dir.
func ProjectConfigPath(dir string) string {
	return filepath.Join(orDot(dir), ProjectConfigFile)
}

// LegacyProjectConfigPath returns the path to the legacy JSON settings file in dir.
func LegacyProjectConfigPath(dir string) string {
	return filepath.Join(orDot(dir), LegacyProjectConfigFile)
}

func orDot(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
