// Package shared provides constants, the application wiring and error
// mapping used across CLI subpackages.
// This package has no dependencies on other CLI packages to avoid circular imports.
package shared

import (
	"errors"
	"fmt"
)

// Command group IDs for organizing help output
const (
	GroupProject     = "project"
	GroupDiagnostics = "diagnostics"
	GroupTasks       = "tasks"
	GroupUtility     = "utility"
)

// Exit codes for CLI commands
const (
	ExitSuccess           = 0
	ExitValidationFailed  = 1
	ExitInvalidArguments  = 3
	ExitMissingDependency = 4
	ExitTimeout           = 5
	ExitAuthRequired      = 6
)

// exitError carries an exit code and, optionally, the error to print.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit code %d", e.code)
}

func (e *exitError) Unwrap() error { return e.err }

// NewExitError creates a silent exit error with the given code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// WithExitCode attaches an exit code to err.
func WithExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// ExitCode returns the exit code from an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return ExitValidationFailed
}

// Printable returns the error to show the user, or nil for silent exits.
func Printable(err error) error {
	var e *exitError
	if errors.As(err, &e) {
		return e.err
	}
	return err
}
