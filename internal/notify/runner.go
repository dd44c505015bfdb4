package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/mtatools/mtatools/internal/shell"
)

// Sender shows a notification.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// Runner is a shell.TaskRunner that notifies when a task of the wrapped
// runner finishes, as long as it ran at least Threshold.
type Runner struct {
	Runner shell.TaskRunner
	Sender Sender
	// Threshold of zero notifies after every task.
	Threshold time.Duration
	Log       logr.Logger

	now func() time.Time
}

// Execute implements shell.TaskRunner.
func (r *Runner) Execute(ctx context.Context, execution shell.Execution, name string) (int, error) {
	start := r.clock()
	code, err := r.Runner.Execute(ctx, execution, name)
	elapsed := r.clock().Sub(start)

	if errors.Is(err, context.Canceled) || elapsed < r.Threshold {
		return code, err
	}

	n := Completed(name, code, err, elapsed)
	// the task context may be done already; the notification gets its own deadline
	if sendErr := r.Sender.Send(context.WithoutCancel(ctx), n); sendErr != nil {
		r.Log.V(1).Info("notification not sent", "task", name, "error", sendErr.Error())
	}
	return code, err
}

func (r *Runner) clock() time.Time {
	if r.now == nil {
		return time.Now()
	}
	return r.now()
}

// Completed builds the notification for a finished task.
func Completed(name string, exitCode int, err error, elapsed time.Duration) Notification {
	switch {
	case err != nil:
		return Notification{Title: Title, Message: fmt.Sprintf("%s could not run: %v", name, err), Failure: true}
	case exitCode != 0:
		return Notification{
			Title:   Title,
			Message: fmt.Sprintf("%s failed with exit code %d (%s)", name, exitCode, FormatDuration(elapsed)),
			Failure: true,
		}
	}
	return Notification{Title: Title, Message: fmt.Sprintf("%s finished (%s)", name, FormatDuration(elapsed))}
}
