package history

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"

	"github.com/mtatools/mtatools/internal/shell"
)

// Recorder is a shell.TaskRunner that records every execution of the
// wrapped runner. History failures are logged and never fail the task.
type Recorder struct {
	Runner shell.TaskRunner
	Writer *Writer
	Log    logr.Logger
}

// Execute implements shell.TaskRunner.
func (r *Recorder) Execute(ctx context.Context, execution shell.Execution, name string) (int, error) {
	start := time.Now()
	id, err := r.Writer.Start(name, execution.Command, execution.Cwd)
	if err != nil {
		r.Log.Error(err, "cannot record task start", "task", name)
	}

	code, runErr := r.Runner.Execute(ctx, execution, name)

	if id != "" {
		if err := r.Writer.Complete(id, code, StatusFor(code, runErr), time.Since(start)); err != nil {
			r.Log.Error(err, "cannot record task completion", "task", name)
		}
	}
	return code, runErr
}

// StatusFor maps the outcome of a task to an entry status.
func StatusFor(exitCode int, err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return StatusCancelled
	case err != nil, exitCode != 0:
		return StatusFailed
	}
	return StatusCompleted
}
