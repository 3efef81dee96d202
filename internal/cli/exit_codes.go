package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	clierrors "github.com/conformalize/conformalize/internal/errors"
)

// Exit codes for the conformalize CLI.
// A run that writes files exits non-zero so that pre-commit and CI fail until
// the changes are committed.
const (
	// ExitSuccess indicates every file already conformed
	ExitSuccess = 0

	// ExitModified indicates at least one file was (or in a dry run would be) written
	ExitModified = 1

	// ExitFatal indicates a recipe or I/O failure
	ExitFatal = 2

	// ExitInvalidArguments indicates invalid command arguments or settings
	ExitInvalidArguments = 3
)

// modifiedError is returned by the root command when files were written.
// It carries no message of its own; the summary has already been printed.
type modifiedError struct {
	paths []string
}

func (e *modifiedError) Error() string {
	return "modified " + strings.Join(e.paths, ", ")
}

// exitCode maps the error returned by a command to a process exit code,
// printing it to stderr when it is a failure.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitSuccess
	}
	var modified *modifiedError
	if errors.As(err, &modified) {
		return ExitModified
	}

	cliErr := clierrors.Classify(err)
	fmt.Fprint(stderr, clierrors.FormatError(cliErr))
	switch cliErr.Category {
	case clierrors.Argument, clierrors.Configuration:
		return ExitInvalidArguments
	default:
		return ExitFatal
	}
}
