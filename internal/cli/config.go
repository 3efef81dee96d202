package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conformalize/conformalize/internal/config"
	"github.com/conformalize/conformalize/internal/document"
	"github.com/conformalize/conformalize/internal/edit"
	clierrors "github.com/conformalize/conformalize/internal/errors"
)

var (
	configInitForce     bool
	configMigrateRemove bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage conformalize settings",
	Long: `Manage conformalize settings.

Settings are loaded with the following priority (highest to lowest):
  1. Environment variables (CONFORMALIZE_*, '__' separates nesting levels)
  2. Project settings (.conformalize.yaml, or the legacy .conformalize.json)
  3. Built-in defaults`,
	Example: `  # List every key
  conformalize config keys

  # Enable the ruff.toml recipe
  conformalize config set ruff true

  # Write a commented settings template
  conformalize config init`,
	GroupID: groupConfiguration,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the settings keys with their types and defaults",
	Args:  noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bold := color.New(color.Bold).SprintFunc()
		dim := color.New(color.Faint).SprintFunc()
		out := cmd.OutOrStdout()
		for _, key := range config.SortedKeys() {
			schema := config.KnownKeys[key]
			def := "-"
			if schema.Default != nil {
				def = fmt.Sprint(schema.Default)
			}
			fmt.Fprintf(out, "%s %s\n    %s\n", bold(key), dim(fmt.Sprintf("(%s, default: %s)", schema.Type, def)), schema.Description)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a settings value, keeping the rest of the file",
	Example: `  conformalize config set python_version 3.13
  conformalize config set github.pull_request.pytest.os.ubuntu true`,
	Args: exactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if _, err := config.ValidateValue(key, value); err != nil {
			var unknown config.ErrUnknownKey
			if errors.As(err, &unknown) {
				return clierrors.UnknownConfigKey(unknown.Key)
			}
			return argumentError(cmd, err)
		}

		ws, rel, err := settingsWorkspace()
		if err != nil {
			return err
		}
		state, err := config.SetConfigValue(ws, rel, key, value)
		if err != nil {
			return err
		}
		if state == edit.Unchanged {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is already %s in %s\n", key, value, rel)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, rel)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented settings template",
	Long: `Write a commented settings template to .conformalize.yaml.

An existing file is left unchanged unless --force is given.`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, rel, err := settingsWorkspace()
		if err != nil {
			return err
		}
		if ws.Exists(rel) && !configInitForce {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already exists (use --force to overwrite)\n", rel)
			return nil
		}
		state, err := edit.EditText(ws, rel, func(doc *document.Text) error {
			doc.Set(config.GetDefaultConfigTemplate())
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", rel, state)
		return nil
	},
}

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert .conformalize.json to .conformalize.yaml",
	Args:  noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := projectDir()
		if err != nil {
			return err
		}
		ws := edit.NewWorkspace(dir, logger)
		ws.DryRun = opts.dryRun

		result, err := config.MigrateJSONToYAML(ws)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		if !result.Success || !configMigrateRemove {
			return nil
		}
		if err := config.RemoveLegacyConfig(ws); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s.bak\n", config.LegacyProjectConfigFile, config.LegacyProjectConfigFile)
		return nil
	},
}

// settingsWorkspace returns a workspace holding the settings file and the
// file's path relative to it.
func settingsWorkspace() (*edit.Workspace, string, error) {
	dir, rel := "", config.ProjectConfigFile
	if opts.config != "" {
		abs, err := filepath.Abs(opts.config)
		if err != nil {
			return nil, "", clierrors.ConfigFileNotFound(opts.config)
		}
		dir, rel = filepath.Dir(abs), filepath.Base(abs)
	} else {
		var err error
		if dir, err = projectDir(); err != nil {
			return nil, "", err
		}
	}
	ws := edit.NewWorkspace(dir, logger)
	ws.DryRun = opts.dryRun
	return ws, rel, nil
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing settings file")
	configMigrateCmd.Flags().BoolVar(&configMigrateRemove, "remove-legacy", false, "Rename the JSON file to .bak after migrating")

	configCmd.AddCommand(configKeysCmd, configSetCmd, configInitCmd, configMigrateCmd)
	rootCmd.AddCommand(configCmd)
}
