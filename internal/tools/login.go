package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/logr"

	"github.com/mtatools/mtatools/internal/shell"
)

// Login runs an interactive login.
type Login interface {
	Login(ctx context.Context) error
}

// AuthSource reports the Cloud Foundry login state.
type AuthSource interface {
	CFAuth() CFAuthStatus
}

// EnsureLoggedIn reports whether cf is logged in, running login at most once
// when it is not. A nil login means no attempt is made.
func EnsureLoggedIn(ctx context.Context, auth AuthSource, login Login, log logr.Logger) bool {
	if auth.CFAuth().IsLoggedIn() {
		return true
	}
	if login == nil {
		return false
	}
	if err := login.Login(ctx); err != nil {
		log.Error(err, "cf login failed")
	}
	return auth.CFAuth().IsLoggedIn()
}

// CFLogin runs "cf login" through a task runner so the user can answer its prompts.
type CFLogin struct {
	Runner    shell.TaskRunner
	CFCommand string
}

// Login runs cf login in the home directory. A non-zero exit is an error.
func (l *CFLogin) Login(ctx context.Context) error {
	command := l.CFCommand
	if command == "" {
		command = DefaultCFCommand
	}
	home, _ := os.UserHomeDir()

	code, err := l.Runner.Execute(ctx, shell.Execution{Command: command + " login", Cwd: home}, "cf login")
	if err != nil {
		return err
	}
	if code != 0 {
		return fmt.Errorf("cf login exited with code %d", code)
	}
	return nil
}
