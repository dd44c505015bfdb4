package project

import (
	"github.com/spf13/cobra"

	"github.com/mtatools/mtatools/internal/cli/shared"
	"github.com/mtatools/mtatools/internal/commands"
)

func newDeployCmd(newApp shared.AppFactory) *cobra.Command {
	var opts commands.DeployOptions

	cmd := &cobra.Command{
		Use:   "deploy [archive]",
		Short: "Deploy an MTA archive to Cloud Foundry",
		Long: `Deploy an MTA archive (.mtar) with the Cloud Foundry CLI and the MultiApps plugin.

Without an archive path every .mtar file in the workspace folders is a candidate.
When no org and space are targeted, 'cf login' runs once before deploying.`,
		Example: `  # Deploy the archive built last
  mtatools deploy

  # Deploy with a production extension descriptor
  mtatools deploy mta_archives/app_1.0.0.mtar -e prod.mtaext`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				opts.Path = args[0]
			}

			out, err := commands.Deploy(cmd.Context(), app.Environment(), opts)
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
	cmd.Flags().StringVarP(&opts.ExtPath, "ext", "e", "", "MTA extension descriptor (.mtaext) applied during the deployment")
	return cmd
}
