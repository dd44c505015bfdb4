package util

import (
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mtatools/mtatools/internal/build"
	"github.com/mtatools/mtatools/internal/cli/shared"
)

func newVersionCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for mtatools",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if plain {
				printPlainVersion(cmd.OutOrStdout())
				return
			}
			printPrettyVersion(cmd.OutOrStdout())
		},
	}
	cmd.GroupID = shared.GroupUtility
	cmd.Flags().BoolVar(&plain, "plain", false, "Plain output without formatting")
	return cmd
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	fmt.Fprintf(w, "mtatools %s\n", build.Version)
	fmt.Fprintf(w, "commit: %s\n", build.Commit)
	fmt.Fprintf(w, "built: %s\n", build.BuildDate)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func printPrettyVersion(w io.Writer) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintln(w, cyan("mtatools")+" - build, deploy and validate MTA projects")
	info := []struct {
		label string
		value string
	}{
		{"Version", build.Version},
		{"Commit", truncateCommit(build.Commit)},
		{"Built", build.BuildDate},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}
	for _, item := range info {
		fmt.Fprintf(w, "  %s  %s\n", yellow(fmt.Sprintf("%-9s", item.label)), item.value)
	}
}

// truncateCommit shortens a commit hash to 7 characters
func truncateCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
