// Package commands implements the interactive build and deploy flows:
// locate the project descriptor or archive, let the user pick one when there
// are several, check the tools, and hand the command line to the task runner.
package commands

import (
	"context"
	"errors"

	"github.com/go-logr/logr"

	"github.com/mtatools/mtatools/internal/prompt"
	"github.com/mtatools/mtatools/internal/shell"
	"github.com/mtatools/mtatools/internal/taskprovider"
	"github.com/mtatools/mtatools/internal/tools"
	"github.com/mtatools/mtatools/internal/workspace"
)

var (
	ErrNoDescriptor       = errors.New("no MTA project descriptor found")
	ErrNoArchive          = errors.New("no MTA archive found")
	ErrMbtNotInstalled    = errors.New("mbt is not installed")
	ErrPluginNotInstalled = errors.New("the multiapps cf plugin is not installed")
	ErrNotLoggedIn        = errors.New("not logged in to Cloud Foundry")
)

// Environment holds the collaborators of the command flows.
type Environment struct {
	Workspace *workspace.Workspace
	Tools     taskprovider.Toolchain
	// Login is attempted once when deploying without a targeted org and space. Optional.
	Login    tools.Login
	Prompter prompt.Prompter
	Runner   shell.TaskRunner
	Log      logr.Logger
}

// Outcome is the task handed to the runner and its exit code.
type Outcome struct {
	Task     taskprovider.Task
	ExitCode int
}

// choose returns the only candidate, or asks the user to pick one.
// prompt.ErrCancelled is returned unchanged when the user backs out.
func (env *Environment) choose(label string, candidates []string) (string, error) {
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	return env.Prompter.Select(label, candidates)
}

func (env *Environment) run(ctx context.Context, task taskprovider.Task) (*Outcome, error) {
	env.Log.V(1).Info("running task", "name", task.Name, "command", task.Execution.Command, "cwd", task.Execution.Cwd)
	code, err := env.Runner.Execute(ctx, task.Execution, task.Name)
	if err != nil {
		return nil, err
	}
	return &Outcome{Task: task, ExitCode: code}, nil
}
