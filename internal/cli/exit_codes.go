package cli

import (
	"github.com/mtatools/mtatools/internal/cli/shared"
)

// Exit codes for the mtatools CLI (re-exported from shared)
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = shared.ExitSuccess

	// ExitValidationFailed indicates descriptor validation found errors
	ExitValidationFailed = shared.ExitValidationFailed

	// ExitInvalidArguments indicates invalid command arguments or missing input files
	ExitInvalidArguments = shared.ExitInvalidArguments

	// ExitMissingDependencies indicates mbt, cf or the MultiApps plugin is missing
	ExitMissingDependencies = shared.ExitMissingDependency

	// ExitTimeout indicates a tool check timed out
	ExitTimeout = shared.ExitTimeout

	// ExitAuthRequired indicates no Cloud Foundry org and space are targeted
	ExitAuthRequired = shared.ExitAuthRequired
)

// ExitCode returns the exit code from an error (re-exported from shared).
func ExitCode(err error) int {
	return shared.ExitCode(err)
}
