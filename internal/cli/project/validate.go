package project

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtatools/mtatools/internal/cli/shared"
	"github.com/mtatools/mtatools/internal/diagnostics"
	apperrors "github.com/mtatools/mtatools/internal/errors"
	"github.com/mtatools/mtatools/internal/mta"
	"github.com/mtatools/mtatools/internal/validation"
)

// Output formats of the validate command.
const (
	formatText = "text"
	formatJSON = "json"
)

func newValidateCmd(newApp shared.AppFactory) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate [folders...]",
		Short: "Validate every MTA project in the workspace",
		Long: `Validate every mta.yaml (and its dev.mtaext) below the workspace folders and
print the problems grouped by file. Exits with code 1 when any error is found.`,
		Example: `  mtatools validate
  mtatools validate ./apps ./services --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatText && format != formatJSON {
				return shared.WithExitCode(shared.ExitInvalidArguments, apperrors.NewArgumentErrorWithUsage(
					fmt.Sprintf("unsupported format %q", format),
					"mtatools validate --format text|json",
				))
			}
			app, err := newApp(cmd, args)
			if err != nil {
				return err
			}

			store := diagnostics.NewStore()
			pipeline := newPipeline(app, store)

			done := func(error) {}
			if format == formatText {
				done = app.Step("validating MTA projects")
			}
			err = pipeline.Revalidate(cmd.Context(), false)
			done(err)
			if err != nil {
				return err
			}

			snapshot := store.Snapshot()
			if format == formatJSON {
				if err := diagnostics.RenderJSON(app.Out, snapshot); err != nil {
					return err
				}
			} else {
				diagnostics.RenderText(app.Out, snapshot, app.Config.Color)
			}

			if errs, _ := diagnostics.Count(snapshot); errs > 0 {
				return shared.NewExitError(shared.ExitValidationFailed)
			}
			return nil
		},
	}
	cmd.GroupID = shared.GroupDiagnostics
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text or json")
	return cmd
}

func newPipeline(app *shared.App, store *diagnostics.Store) *validation.Pipeline {
	cache := diagnostics.NewCache(store, nil)
	adapter := validation.NewAdapter(mta.NewValidator())
	return validation.NewPipeline(cache, adapter, app.Workspace, app.Config.RevalidateConcurrency, app.Log.WithName("validation"))
}
