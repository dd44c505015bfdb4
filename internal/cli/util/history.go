package util

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mtatools/mtatools/internal/cli/shared"
	apperrors "github.com/mtatools/mtatools/internal/errors"
	"github.com/mtatools/mtatools/internal/history"
)

func newHistoryCmd(newApp shared.AppFactory) *cobra.Command {
	var (
		limit    int
		status   string
		clearAll bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the build and deploy tasks run so far",
		Long: `Show the build and deploy tasks mtatools ran, with start time, status, exit code
and duration. The history is kept in history.yaml below the configured state_dir.`,
		Example: `  mtatools history -n 10
  mtatools history --status failed
  mtatools history --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return shared.WithExitCode(shared.ExitInvalidArguments,
					apperrors.NewArgumentError(fmt.Sprintf("limit must not be negative, got %d", limit)))
			}
			switch status {
			case "", history.StatusRunning, history.StatusCompleted, history.StatusFailed, history.StatusCancelled:
			default:
				return shared.WithExitCode(shared.ExitInvalidArguments,
					apperrors.NewArgumentError(fmt.Sprintf("unknown status %q", status),
						"Use one of running, completed, failed, cancelled"))
			}

			app, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			stateDir := app.Config.StateDir

			if clearAll {
				if err := history.Clear(stateDir); err != nil {
					return fmt.Errorf("clearing history: %w", err)
				}
				fmt.Fprintln(app.Out, "History cleared.")
				return nil
			}

			entries, err := history.Recent(stateDir, limit, status)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(app.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(app.Out, "No history available.")
				return nil
			}
			printEntries(app, entries)
			return nil
		},
	}
	cmd.GroupID = shared.GroupUtility
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the last N entries")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (running, completed, failed, cancelled)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Clear the history")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the entries as JSON")
	return cmd
}

func printEntries(app *shared.App, entries []history.Entry) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)
	for _, c := range []*color.Color{green, yellow, red, cyan} {
		if app.Config.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for _, e := range entries {
		st := fmt.Sprintf("%-10s", e.Status)
		switch e.Status {
		case history.StatusCompleted:
			st = green.Sprint(st)
		case history.StatusRunning:
			st = yellow.Sprint(st)
		default:
			st = red.Sprint(st)
		}
		duration := e.Duration
		if duration == "" {
			duration = "-"
		}
		fmt.Fprintf(app.Out, "%s  %s  exit=%-3d %-8s  %s\n",
			cyan.Sprint(e.StartedAt.Local().Format("2006-01-02 15:04:05")),
			st,
			e.ExitCode,
			duration,
			e.Task,
		)
	}
}
