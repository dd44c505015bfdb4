package taskprovider

import (
	"context"
	"errors"

	"github.com/mtatools/mtatools/internal/shell"
	"github.com/mtatools/mtatools/internal/tools"
)

// Reasons a definition does not resolve to a task.
var (
	ErrNoWorkspace = errors.New("no workspace folders are open")
	ErrToolMissing = errors.New("required tool is not installed")
	ErrNotLoggedIn = errors.New("not logged in to Cloud Foundry")
)

// Task is a runnable task: its definition plus the shell execution it maps to.
type Task struct {
	Definition RawDefinition   `json:"definition"`
	Scope      string          `json:"scope,omitempty"`
	Name       string          `json:"name"`
	Source     string          `json:"source"`
	Execution  shell.Execution `json:"execution"`
}

// Provider auto-detects tasks and resolves definitions of one task type.
type Provider interface {
	ProvideTasks(ctx context.Context) []Task
	ResolveTask(ctx context.Context, raw RawDefinition) (*Task, error)
}

// Notifier shows errors to the user.
type Notifier interface {
	ShowError(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// ShowError calls f.
func (f NotifierFunc) ShowError(message string) { f(message) }

// Toolchain is the tool detection used by providers. *tools.Detector implements it.
type Toolchain interface {
	MbtCommand() string
	CFCommand() string
	DetectMbt(ctx context.Context) tools.Status
	MultiappsInstalled(ctx context.Context) bool
	CFAuth() tools.CFAuthStatus
}
