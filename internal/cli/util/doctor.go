package util

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtatools/mtatools/internal/cli/shared"
	"github.com/mtatools/mtatools/internal/health"
)

func newDoctorCmd(newApp shared.AppFactory) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run health checks for mtatools dependencies",
		Long: `Run health checks to verify that the tools mtatools drives are installed.

This command checks for:
  - the Cloud MTA Build Tool (mbt)
  - the Cloud Foundry CLI (cf)
  - the MultiApps cf plugin
  - a targeted Cloud Foundry org and space

Each check displays a ✓ if passed or ✗ with a hint if failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, nil)
			if err != nil {
				return err
			}

			done := app.Step("checking tools")
			report := health.RunHealthChecks(cmd.Context(), app.Tools)
			done(nil)

			if asJSON {
				enc := json.NewEncoder(app.Out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(app.Out, health.FormatReport(report))
			}

			if !report.Passed {
				return shared.NewExitError(shared.ExitMissingDependency)
			}
			return nil
		},
	}
	cmd.GroupID = shared.GroupUtility
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}
