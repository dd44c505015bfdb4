package project

import (
	"github.com/spf13/cobra"

	"github.com/mtatools/mtatools/internal/cli/shared"
	"github.com/mtatools/mtatools/internal/commands"
)

func newBuildCmd(newApp shared.AppFactory) *cobra.Command {
	var opts commands.BuildOptions

	cmd := &cobra.Command{
		Use:   "build [path]",
		Short: "Build an MTA archive with mbt",
		Long: `Build an MTA archive from a project descriptor (mta.yaml) with the Cloud MTA Build Tool.

Without a path every mta.yaml in the workspace folders is a candidate. A single
project is built directly; with several projects you are asked to pick one.`,
		Example: `  # Build the only project in the current folder tree
  mtatools build

  # Build a specific project into ./dist with a custom archive name
  mtatools build ./app -t ./dist --mtar app.mtar`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				opts.Path = args[0]
			}

			out, err := commands.Build(cmd.Context(), app.Environment(), opts)
			if err != nil {
				return shared.MapError(err)
			}
			if out.ExitCode != 0 {
				return shared.NewExitError(out.ExitCode)
			}
			return nil
		},
	}
	cmd.GroupID = shared.GroupProject
	cmd.Flags().StringVarP(&opts.MtarTargetPath, "target", "t", "", "Folder in which the MTA archive is created")
	cmd.Flags().StringVar(&opts.MtarName, "mtar", "", "File name of the MTA archive")
	cmd.Flags().StringVarP(&opts.ExtPath, "ext", "e", "", "MTA extension descriptor (.mtaext) applied during the build")
	return cmd
}
