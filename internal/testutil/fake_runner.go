package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/mtatools/mtatools/internal/shell"
)

// ErrNotFound is returned by FakeRunner for commands without a configured response.
var ErrNotFound = errors.New("executable file not found in $PATH")

// RunCall records one FakeRunner.Run call.
type RunCall struct {
	Name string
	Args []string
	Opts shell.Options
}

// CommandLine returns "name arg1 arg2".
func (c RunCall) CommandLine() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

type runResponse struct {
	result shell.Result
	err    error
}

// FakeRunner is a shell.Runner answering from canned responses keyed by the
// full command line. Responses for one command line are used in order; the
// last one repeats.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string][]runResponse
	calls     []RunCall
}

// NewFakeRunner creates a runner with no responses.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string][]runResponse)}
}

// WithResult queues a result for cmdline.
func (f *FakeRunner) WithResult(cmdline string, res shell.Result) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = append(f.responses[cmdline], runResponse{result: res})
	return f
}

// WithStdout queues a successful result with the given stdout.
func (f *FakeRunner) WithStdout(cmdline, stdout string) *FakeRunner {
	return f.WithResult(cmdline, shell.Result{Stdout: stdout})
}

// WithError queues an error for cmdline.
func (f *FakeRunner) WithError(cmdline string, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = append(f.responses[cmdline], runResponse{err: err})
	return f
}

// Run implements shell.Runner.
func (f *FakeRunner) Run(ctx context.Context, name string, args []string, opts shell.Options) (shell.Result, error) {
	call := RunCall{Name: name, Args: append([]string(nil), args...), Opts: opts}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)

	if err := ctx.Err(); err != nil {
		return shell.Result{}, err
	}

	queue := f.responses[call.CommandLine()]
	if len(queue) == 0 {
		return shell.Result{}, ErrNotFound
	}
	resp := queue[0]
	if len(queue) > 1 {
		f.responses[call.CommandLine()] = queue[1:]
	}
	return resp.result, resp.err
}

// Calls returns all recorded calls.
func (f *FakeRunner) Calls() []RunCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RunCall(nil), f.calls...)
}

// CallCount returns how often cmdline was run.
func (f *FakeRunner) CallCount(cmdline string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.CommandLine() == cmdline {
			n++
		}
	}
	return n
}

// ExecutedTask records one FakeTaskRunner.Execute call.
type ExecutedTask struct {
	Name      string
	Execution shell.Execution
}

// FakeTaskRunner is a shell.TaskRunner that records executions.
type FakeTaskRunner struct {
	mu         sync.Mutex
	ExitCode   int
	Err        error
	OnExecute  func(shell.Execution)
	executions []ExecutedTask
}

// Execute implements shell.TaskRunner.
func (f *FakeTaskRunner) Execute(_ context.Context, execution shell.Execution, name string) (int, error) {
	f.mu.Lock()
	f.executions = append(f.executions, ExecutedTask{Name: name, Execution: execution})
	hook, code, err := f.OnExecute, f.ExitCode, f.Err
	f.mu.Unlock()

	if hook != nil {
		hook(execution)
	}
	return code, err
}

// Executions returns all recorded executions.
func (f *FakeTaskRunner) Executions() []ExecutedTask {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ExecutedTask(nil), f.executions...)
}
