package cli

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conformalize/conformalize/internal/build"
)

var versionPlain bool

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for conformalize",
	Example: `  # Show version info
  conformalize version

  # Plain output (for scripts)
  conformalize version --plain`,
	Args:    noArgs,
	GroupID: groupInfo,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if versionPlain {
			fmt.Fprintf(out, "conformalize %s\n", build.Version)
			fmt.Fprintf(out, "commit: %s\n", build.Commit)
			fmt.Fprintf(out, "built: %s\n", build.BuildDate)
			fmt.Fprintf(out, "go: %s\n", runtime.Version())
			fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		dim := color.New(color.Faint).SprintFunc()
		fmt.Fprintf(out, "%s %s\n", cyan("conformalize"), build.Version)
		info := []struct {
			label string
			value string
		}{
			{"Commit", truncateCommit(build.Commit)},
			{"Built", build.BuildDate},
			{"Go", runtime.Version()},
			{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
			{"Source", build.SourceURL},
		}
		for _, i := range info {
			fmt.Fprintf(out, "  %s %s\n", dim(fmt.Sprintf("%-9s", i.label+":")), i.value)
		}
	},
}

// truncateCommit shortens a full commit hash to 7 characters.
func truncateCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}

func init() {
	versionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Plain output without formatting")
	rootCmd.AddCommand(versionCmd)
}
