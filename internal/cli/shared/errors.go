package shared

import (
	"errors"

	"github.com/mtatools/mtatools/internal/commands"
	apperrors "github.com/mtatools/mtatools/internal/errors"
	"github.com/mtatools/mtatools/internal/prompt"
	"github.com/mtatools/mtatools/internal/shell"
	"github.com/mtatools/mtatools/internal/taskprovider"
)

// MapError converts domain errors into CLI errors with exit codes.
// A cancelled selection maps to nil.
func MapError(err error) error {
	switch {
	case err == nil, errors.Is(err, prompt.ErrCancelled):
		return nil
	case errors.Is(err, commands.ErrNoDescriptor):
		return WithExitCode(ExitInvalidArguments, apperrors.NoProjectDescriptor())
	case errors.Is(err, commands.ErrNoArchive):
		return WithExitCode(ExitInvalidArguments, apperrors.NoArchive())
	case errors.Is(err, commands.ErrMbtNotInstalled):
		return WithExitCode(ExitMissingDependency, apperrors.MbtNotInstalled())
	case errors.Is(err, commands.ErrPluginNotInstalled):
		return WithExitCode(ExitMissingDependency, apperrors.MultiappsPluginNotInstalled())
	case errors.Is(err, commands.ErrNotLoggedIn), errors.Is(err, taskprovider.ErrNotLoggedIn):
		return WithExitCode(ExitAuthRequired, apperrors.LoginRequired())
	case errors.Is(err, shell.ErrTimeout):
		return WithExitCode(ExitTimeout, apperrors.Wrap(err, apperrors.Runtime))
	}
	return err
}

// MapTaskError converts a task resolution failure for the task with the given label.
func MapTaskError(label string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, taskprovider.ErrToolMissing):
		return WithExitCode(ExitMissingDependency, apperrors.TaskNotResolvable(label, err.Error()))
	case errors.Is(err, taskprovider.ErrNotLoggedIn):
		return WithExitCode(ExitAuthRequired, apperrors.TaskNotResolvable(label, err.Error()))
	}
	return WithExitCode(ExitInvalidArguments, apperrors.TaskNotResolvable(label, err.Error()))
}
