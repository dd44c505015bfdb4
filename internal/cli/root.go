// Package cli provides the Cobra-based commands of mtatools: building and
// deploying MTA projects, validating their descriptors, resolving task
// definitions and checking the installed tools.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mtatools/mtatools/internal/cli/project"
	"github.com/mtatools/mtatools/internal/cli/shared"
	"github.com/mtatools/mtatools/internal/cli/tasks"
	"github.com/mtatools/mtatools/internal/cli/util"
	"github.com/mtatools/mtatools/internal/config"
	apperrors "github.com/mtatools/mtatools/internal/errors"
)

// NewRootCmd builds the command tree. newApp wires the collaborators of each command.
func NewRootCmd(newApp shared.AppFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mtatools",
		Short: "Build, deploy and validate MTA projects",
		Long: `mtatools - build, deploy and validate Multi-Target Application projects

Builds MTA archives with the Cloud MTA Build Tool (mbt), deploys them with the
Cloud Foundry CLI and the MultiApps plugin, and reports problems in mta.yaml and
dev.mtaext descriptors.`,
		Example: `  # Check that mbt, cf and the MultiApps plugin are installed
  mtatools doctor

  # Validate every project below the current folder
  mtatools validate

  # Build, then deploy
  mtatools build
  mtatools deploy`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupProject, Title: "Project Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupDiagnostics, Title: "Diagnostics:"})
	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupTasks, Title: "Tasks:"})
	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupUtility, Title: "Utility:"})
	rootCmd.SetHelpCommandGroupID(shared.GroupUtility)
	rootCmd.SetCompletionCommandGroupID(shared.GroupUtility)

	rootCmd.PersistentFlags().StringP(shared.FlagConfig, "c", config.DefaultLocalPath, "Path to config file")
	rootCmd.PersistentFlags().BoolP(shared.FlagDebug, "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringSliceP(shared.FlagFolder, "f", nil, "Workspace folder (repeatable, default: current directory)")

	project.Register(rootCmd, newApp)
	tasks.Register(rootCmd, newApp)
	util.Register(rootCmd, newApp)
	return rootCmd
}

// Execute runs the root command, prints any error, and returns the error so
// the caller can derive the exit code.
func Execute() error {
	return ExecuteContext(context.Background(), NewRootCmd(shared.NewApp), nil)
}

// ExecuteContext runs cmd with args (nil uses os.Args).
func ExecuteContext(ctx context.Context, cmd *cobra.Command, args []string) error {
	if args != nil {
		cmd.SetArgs(args)
	}
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	if printable := shared.Printable(err); printable != nil {
		apperrors.FprintError(cmd.ErrOrStderr(), printable)
	}
	return err
}
