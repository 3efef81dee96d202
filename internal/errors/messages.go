package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/conformalize/conformalize/internal/codec"
	"github.com/conformalize/conformalize/internal/config"
	"github.com/conformalize/conformalize/internal/conform"
	"github.com/conformalize/conformalize/internal/document"
)

// Common error messages for the conformalize CLI.
// These templates ensure consistent, actionable error messages.

// ConfigFileNotFound creates an error for an explicit --config path that does not exist.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("settings file not found: %s", path),
		"Run 'conformalize config init' to create a settings file",
		"Or drop --config to use "+config.ProjectConfigFile+" in the project root",
	)
}

// ConfigInvalid creates an error for a settings file that fails validation.
func ConfigInvalid(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"invalid settings",
		"Check the file against 'conformalize config keys'",
		"Regenerate a commented template with: conformalize config init --force",
	)
}

// UnknownConfigKey creates an error for a key missing from the settings schema.
func UnknownConfigKey(key string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unknown configuration key: %s", key),
		"conformalize config set <key> <value>",
		"List the known keys with: conformalize config keys",
	)
}

// DirectoryNotFound creates an error for a missing --dir.
func DirectoryNotFound(path string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("directory not found: %s", path),
		"Check that the path is correct",
	)
}

// TypeMismatch creates an error for a managed key that holds the wrong kind of value.
func TypeMismatch(err error) *CLIError {
	return WrapWithMessage(err, Document,
		"cannot merge into existing file",
		"Fix or remove the offending key by hand, then rerun",
	)
}

// AmbiguousMatch creates an error for a list with more than one candidate entry.
func AmbiguousMatch(err error) *CLIError {
	return WrapWithMessage(err, Document,
		"cannot merge into existing file",
		"Remove the duplicate entry by hand, then rerun",
	)
}

// NotSerializable creates an error for a value the target format cannot hold.
func NotSerializable(err error) *CLIError {
	return WrapWithMessage(err, Document,
		"cannot write file",
		"The file was left untouched; please report this as a bug",
	)
}

// InconsistentVersions creates an error for a version file that disagrees with .bumpversion.toml.
func InconsistentVersions(err error) *CLIError {
	remediation := []string{"Run 'bump-my-version bump patch' or fix the file by hand"}
	var iv *conform.InconsistentVersionsError
	if stderrors.As(err, &iv) && iv.File != "" {
		remediation = append([]string{fmt.Sprintf("Set the version in %s to %s", iv.File, iv.Want)}, remediation...)
	}
	return Wrap(err, Document, remediation...)
}

// Classify turns any error returned by a command into a CLIError.
// Errors that already are CLIErrors are returned unchanged.
func Classify(err error) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var validation *config.ValidationError
	var unknownKey config.ErrUnknownKey
	switch {
	case stderrors.As(err, &unknownKey):
		return UnknownConfigKey(unknownKey.Key)
	case stderrors.As(err, &validation):
		return ConfigInvalid(err)
	case stderrors.Is(err, document.ErrTypeMismatch):
		return TypeMismatch(err)
	case stderrors.Is(err, document.ErrAmbiguousMatch):
		return AmbiguousMatch(err)
	case stderrors.Is(err, codec.ErrSerialization):
		return NotSerializable(err)
	case stderrors.Is(err, conform.ErrInconsistentVersions):
		return InconsistentVersions(err)
	default:
		return Wrap(err, Runtime)
	}
}
