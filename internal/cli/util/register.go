// Package util provides utility CLI commands for mtatools.
// Includes: doctor, history, version
package util

import (
	"github.com/spf13/cobra"

	"github.com/mtatools/mtatools/internal/cli/shared"
)

// Register adds all utility commands to the root command.
func Register(rootCmd *cobra.Command, newApp shared.AppFactory) {
	rootCmd.AddCommand(newDoctorCmd(newApp))
	rootCmd.AddCommand(newHistoryCmd(newApp))
	rootCmd.AddCommand(newVersionCmd())
}
