// Package project provides the build, deploy, validate and watch commands.
package project

import (
	"github.com/spf13/cobra"

	"github.com/mtatools/mtatools/internal/cli/shared"
)

// Register adds the project commands to the root command.
func Register(rootCmd *cobra.Command, newApp shared.AppFactory) {
	rootCmd.AddCommand(newBuildCmd(newApp))
	rootCmd.AddCommand(newDeployCmd(newApp))
	rootCmd.AddCommand(newValidateCmd(newApp))
	rootCmd.AddCommand(newWatchCmd(newApp))
}
