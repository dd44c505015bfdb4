package project

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mtatools/mtatools/internal/cli/shared"
	"github.com/mtatools/mtatools/internal/diagnostics"
	"github.com/mtatools/mtatools/internal/validation"
	"github.com/mtatools/mtatools/internal/workspace"
)

func newWatchCmd(newApp shared.AppFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [folders...]",
		Short: "Revalidate MTA projects whenever their descriptors change",
		Long: `Validate every MTA project in the workspace, then keep watching the folders and
print the updated problems list whenever an mta.yaml or dev.mtaext changes.
Stop with Ctrl+C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store := diagnostics.NewStore()
			changed := make(chan struct{}, 1)
			var disposables workspace.Disposables
			defer disposables.Dispose()

			disposables.Add(store.OnDidChange(func(diagnostics.ChangeEvent) {
				select {
				case changed <- struct{}{}:
				default:
				}
			}))

			watcher := validation.NewWatcher(newPipeline(app, store), app.Workspace, app.Config.Debounce(), app.Log.WithName("watcher"))
			if err := watcher.Register(ctx, &disposables); err != nil {
				return err
			}

			render := func() {
				fmt.Fprintf(app.Out, "\n[%s]\n", time.Now().Format(time.TimeOnly))
				diagnostics.RenderText(app.Out, store.Snapshot(), app.Config.Color)
			}
			render()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-changed:
					render()
				}
			}
		},
	}
	cmd.GroupID = shared.GroupDiagnostics
	return cmd
}
