// Package shell runs external tools (mbt, cf) and synthesized task command lines.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

// ErrTimeout is returned when a command exceeds Options.Timeout.
var ErrTimeout = errors.New("command timed out")

// Options control a single Run.
type Options struct {
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Timeout bounds the run; zero means no limit beyond ctx.
	Timeout time.Duration
	// Env is appended to the inherited environment.
	Env []string
}

// Result is the outcome of a command that started. Output is trimmed.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner runs a command and captures its output. A command that cannot be
// started returns an error; a non-zero exit code does not.
type Runner interface {
	Run(ctx context.Context, name string, args []string, opts Options) (Result, error)
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct {
	Log logr.Logger
}

// NewExecRunner creates an ExecRunner.
func NewExecRunner(log logr.Logger) *ExecRunner {
	return &ExecRunner{Log: log}
}

// Run executes name with args.
func (r *ExecRunner) Run(ctx context.Context, name string, args []string, opts Options) (Result, error) {
	runCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(cmd.Environ(), opts.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.Log.V(1).Info("executing command", "binary", name, "args", args, "dir", opts.Dir)
	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	result := Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return result, fmt.Errorf("%s %s: %w after %s", name, strings.Join(args, " "), ErrTimeout, opts.Timeout)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return result, fmt.Errorf("failed to execute %s: %w", name, err)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	r.Log.V(1).Info("command completed", "binary", name, "exitCode", result.ExitCode, "duration", duration)
	return result, nil
}
