// Package tasks provides the tasks command: list auto-detected build and
// deploy tasks, resolve task definitions from a tasks file, and check them.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mtatools/mtatools/internal/cli/shared"
	apperrors "github.com/mtatools/mtatools/internal/errors"
	"github.com/mtatools/mtatools/internal/taskprovider"
)

// Register adds the tasks command to the root command.
func Register(rootCmd *cobra.Command, newApp shared.AppFactory) {
	rootCmd.AddCommand(newTasksCmd(newApp))
}

func newTasksCmd(newApp shared.AppFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List, resolve and check MTA build and deploy tasks",
	}
	cmd.GroupID = shared.GroupTasks
	cmd.AddCommand(newListCmd(newApp))
	cmd.AddCommand(newResolveCmd(newApp))
	cmd.AddCommand(newCheckCmd())
	return cmd
}

type providers struct {
	build  *taskprovider.BuildProvider
	deploy *taskprovider.DeployProvider
}

func newProviders(app *shared.App) providers {
	notifier := app.Notifier()
	log := app.Log.WithName("tasks")
	return providers{
		build:  taskprovider.NewBuildProvider(app.Workspace, app.Tools, notifier, log),
		deploy: taskprovider.NewDeployProvider(app.Workspace, app.Tools, app.Login, notifier, log),
	}
}

func (p providers) resolve(ctx context.Context, raw taskprovider.RawDefinition) (*taskprovider.Task, error) {
	if raw.Type == taskprovider.TypeDeploy {
		return p.deploy.ResolveTask(ctx, raw)
	}
	return p.build.ResolveTask(ctx, raw)
}

func newListCmd(newApp shared.AppFactory) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the build and deploy tasks detected in the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			p := newProviders(app)
			tasks := append(p.build.ProvideTasks(cmd.Context()), p.deploy.ProvideTasks(cmd.Context())...)

			if asJSON {
				return writeJSON(app.Out, tasks)
			}
			if len(tasks) == 0 {
				fmt.Fprintln(app.Out, "No MTA tasks found")
				return nil
			}
			for _, t := range tasks {
				fmt.Fprintf(app.Out, "%s\n  %s\n  (in %s)\n", t.Name, t.Execution.Command, t.Execution.Cwd)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tasks as JSON")
	return cmd
}

func newResolveCmd(newApp shared.AppFactory) *cobra.Command {
	var run bool

	cmd := &cobra.Command{
		Use:   "resolve <tasks-file> [label]",
		Short: "Resolve MTA task definitions into command lines",
		Long: `Resolve the build-mta and deploy-mta tasks of a tasks.json file into the shell
command lines they run. Tool installation and Cloud Foundry login are checked
the same way as before running the task. With --run the resolved tasks are executed.`,
		Example: `  mtatools tasks resolve .vscode/tasks.json
  mtatools tasks resolve .vscode/tasks.json "Build core" --run`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := selectDefinitions(args)
			if err != nil {
				return err
			}
			app, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			p := newProviders(app)

			var firstErr error
			for _, raw := range defs {
				task, err := p.resolve(cmd.Context(), raw)
				if err != nil {
					mapped := shared.MapTaskError(raw.Label, err)
					apperrors.FprintError(app.Err, shared.Printable(mapped))
					if firstErr == nil {
						firstErr = shared.NewExitError(shared.ExitCode(mapped))
					}
					continue
				}

				fmt.Fprintf(app.Out, "%s: %s\n", task.Name, task.Execution.Command)
				if !run {
					continue
				}
				code, err := app.TaskRunner.Execute(cmd.Context(), task.Execution, task.Name)
				if err != nil {
					return err
				}
				if code != 0 && firstErr == nil {
					firstErr = shared.NewExitError(code)
				}
			}
			return firstErr
		},
	}
	cmd.Flags().BoolVar(&run, "run", false, "Run the resolved tasks")
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <tasks-file>",
		Short: "Check the properties of MTA task definitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := selectDefinitions(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := false
			for _, raw := range defs {
				problems := taskprovider.CheckDefinition(raw)
				if len(problems) == 0 {
					fmt.Fprintf(out, "%s: ok\n", raw.Label)
					continue
				}
				failed = true
				for _, pr := range problems {
					fmt.Fprintf(out, "%s: %s: %s\n", raw.Label, pr.Field, pr.Message)
				}
			}
			if failed {
				return shared.NewExitError(shared.ExitValidationFailed)
			}
			return nil
		},
	}
}

// selectDefinitions loads args[0] and returns its MTA tasks, or only the one
// labelled args[1].
func selectDefinitions(args []string) ([]taskprovider.RawDefinition, error) {
	tf, err := taskprovider.LoadTasksFile(args[0])
	if err != nil {
		return nil, shared.WithExitCode(shared.ExitInvalidArguments, apperrors.NewArgumentError(err.Error()))
	}

	if len(args) > 1 {
		raw, ok := tf.Find(args[1])
		if !ok {
			return nil, shared.WithExitCode(shared.ExitInvalidArguments, apperrors.NewArgumentError(
				fmt.Sprintf("no build-mta or deploy-mta task labelled %q in %s", args[1], args[0]),
			))
		}
		return []taskprovider.RawDefinition{raw}, nil
	}

	var defs []taskprovider.RawDefinition
	for _, t := range tf.Tasks {
		if t.Type == taskprovider.TypeBuild || t.Type == taskprovider.TypeDeploy {
			defs = append(defs, t)
		}
	}
	return defs, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
