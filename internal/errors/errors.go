// Package errors provides categorized, user-facing CLI errors with remediation steps.
package errors

import (
	stderrors "errors"
)

// ErrorCategory classifies a CLIError for display and exit code mapping.
type ErrorCategory int

const (
	// Argument indicates invalid or missing command input.
	Argument ErrorCategory = iota
	// Configuration indicates an invalid configuration file or value.
	Configuration
	// Prerequisite indicates a missing tool, file or login.
	Prerequisite
	// Runtime indicates a failure while executing an operation.
	Runtime
)

// String returns the display title of the category.
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Prerequisite:
		return "Prerequisite Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is an error intended to be shown to the user.
type CLIError struct {
	Category    ErrorCategory
	Message     string
	Usage       string
	Remediation []string
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// NewArgumentError creates an Argument error with optional remediation steps.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Remediation: remediation}
}

// NewArgumentErrorWithUsage creates an Argument error that also shows usage.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Usage: usage, Remediation: remediation}
}

// NewConfigError creates a Configuration error.
func NewConfigError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Configuration, Message: message, Remediation: remediation}
}

// NewPrerequisiteError creates a Prerequisite error.
func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Prerequisite, Message: message, Remediation: remediation}
}

// NewRuntimeError creates a Runtime error.
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Runtime, Message: message, Remediation: remediation}
}

// Wrap converts err into a CLIError of the given category.
// Returns nil when err is nil.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{Category: category, Message: err.Error(), Remediation: remediation}
}

// WrapWithMessage converts err into a CLIError whose message is "message: err".
// Returns nil when err is nil.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{Category: category, Message: message + ": " + err.Error(), Remediation: remediation}
}

// IsCLIError reports whether err is or wraps a CLIError.
func IsCLIError(err error) bool {
	return AsCLIError(err) != nil
}

// AsCLIError returns the CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
