package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/conformalize/conformalize/internal/codec"
	"github.com/conformalize/conformalize/internal/document"
	"github.com/conformalize/conformalize/internal/edit"
)

// MigrationResult describes the outcome of a migration operation
type MigrationResult struct {
	SourcePath string
	TargetPath string
	Success    bool
	DryRun     bool
	Message    string
}

// MigrateJSONToYAML converts the legacy .conformalize.json of ws into
// .conformalize.yaml, keeping the key order of the JSON file.
//
// The migration is skipped when there is no JSON file or when the YAML file
// already exists. In a dry run the planned write is reported but not made.
func MigrateJSONToYAML(ws *edit.Workspace) (*MigrationResult, error) {
	result := &MigrationResult{
		SourcePath: LegacyProjectConfigFile,
		TargetPath: ProjectConfigFile,
		DryRun:     ws.DryRun,
	}

	data, err := os.ReadFile(ws.Path(LegacyProjectConfigFile))
	if errors.Is(err, fs.ErrNotExist) {
		result.Message = fmt.Sprintf("No JSON settings found at %s", LegacyProjectConfigFile)
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON settings: %w", err)
	}

	src, err := codec.JSON.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON settings: %w", err)
	}

	if ws.Exists(ProjectConfigFile) {
		result.Message = fmt.Sprintf("YAML settings already exist at %s (skipped)", ProjectConfigFile)
		return result, nil
	}

	_, err = edit.EditYAML(ws, ProjectConfigFile, func(doc *document.Map) error {
		doc.Comments = []string{"# conformalize settings", "# Migrated from JSON format"}
		doc.Update(src)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write YAML settings: %w", err)
	}

	result.Success = true
	if ws.DryRun {
		result.Message = fmt.Sprintf("Would migrate %s → %s", LegacyProjectConfigFile, ProjectConfigFile)
	} else {
		result.Message = fmt.Sprintf("Migrated %s → %s", LegacyProjectConfigFile, ProjectConfigFile)
	}
	return result, nil
}

// RemoveLegacyConfig renames the legacy JSON settings file to a .bak file
// after a successful migration. A missing file is not an error.
func RemoveLegacyConfig(ws *edit.Workspace) error {
	if !ws.Exists(LegacyProjectConfigFile) {
		return nil
	}
	return ws.Rename(LegacyProjectConfigFile, LegacyProjectConfigFile+".bak")
}
