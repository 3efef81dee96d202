// Package output provides terminal output formatting utilities for the conformalize CLI.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintSeparator prints a dim rule labelled with label, e.g. between watch runs.
func PrintSeparator(out io.Writer, label string) {
	termWidth := GetTerminalWidth()
	magenta := color.New(color.FgMagenta, color.Faint).SprintFunc()

	label = " " + label + " "
	lineLen := (termWidth - len(label)) / 2
	if lineLen < 3 {
		lineLen = 3
	}

	line := strings.Repeat("─", lineLen)
	fmt.Fprintf(out, "\n%s%s%s\n", magenta(line), magenta(label), magenta(line))
}

// PrintModified lists the files a run wrote, one per line.
// Uses a yellow marker for each path.
func PrintModified(out io.Writer, paths []string, dryRun bool) {
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	verb := "Modified"
	if dryRun {
		verb = "Would modify"
	}
	fmt.Fprintf(out, "%s %d file(s):\n", yellow(verb), len(paths))
	for _, p := range paths {
		fmt.Fprintf(out, "  %s %s\n", yellow("~"), cyan(p))
	}
}

// PrintClean prints the message for a run that changed nothing.
// Uses a green checkmark.
func PrintClean(out io.Writer) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), "All files conform")
}
