package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/go-logr/logr"
)

// Execution is a command line run through the platform shell.
type Execution struct {
	Command string
	Cwd     string
}

// TaskRunner runs a task command line interactively and returns its exit code.
type TaskRunner interface {
	Execute(ctx context.Context, execution Execution, name string) (int, error)
}

// ShellTaskRunner runs executions with sh -c (cmd /C on Windows), wired to
// the given streams.
type ShellTaskRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Log    logr.Logger
}

// NewShellTaskRunner creates a runner attached to the process stdio.
func NewShellTaskRunner(log logr.Logger) *ShellTaskRunner {
	return &ShellTaskRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Log:    log,
	}
}

// Execute runs the execution to completion. A non-zero exit code is returned
// together with a nil error; only start failures and cancellation are errors.
func (r *ShellTaskRunner) Execute(ctx context.Context, execution Execution, name string) (int, error) {
	shell, args := shellCommand(runtime.GOOS, execution.Command)
	cmd := exec.CommandContext(ctx, shell, args...)
	cmd.Dir = execution.Cwd
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	r.Log.Info("running task", "task", name, "command", execution.Command, "cwd", execution.Cwd)
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("running task %q: %w", name, err)
}

func shellCommand(goos, command string) (string, []string) {
	if goos == "windows" {
		return "cmd", []string{"/C", command}
	}
	return "sh", []string{"-c", command}
}
