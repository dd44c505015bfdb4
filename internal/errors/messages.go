package errors

import (
	"fmt"

	"github.com/mtatools/mtatools/internal/messages"
)

// NoProjectDescriptor is returned when no mta.yaml exists in the workspace.
func NoProjectDescriptor() *CLIError {
	return NewArgumentError(
		messages.NoProjectDescriptor,
		"Run the command from a folder that contains an MTA project",
		"Or pass the workspace folder with --folder",
	)
}

// NoArchive is returned when no .mtar file exists in the workspace.
func NoArchive() *CLIError {
	return NewArgumentError(
		messages.NoMtaArchive,
		"Build the project first with 'mtatools build'",
		"Or pass the archive path: mtatools deploy <path/to/archive.mtar>",
	)
}

// MbtNotInstalled is returned when the mbt CLI cannot be executed.
func MbtNotInstalled() *CLIError {
	return NewPrerequisiteError(
		messages.InstallMbt,
		"Install the Cloud MTA Build Tool: "+messages.MbtInstallURL,
		"Or point mbt_cmd in the configuration at the mbt binary",
	)
}

// CFNotInstalled is returned when the cf CLI cannot be executed.
func CFNotInstalled() *CLIError {
	return NewPrerequisiteError(
		messages.InstallCF,
		"Install the Cloud Foundry CLI: "+messages.CFInstallURL,
	)
}

// MultiappsPluginNotInstalled is returned when the cf multiapps plugin is missing.
func MultiappsPluginNotInstalled() *CLIError {
	return NewPrerequisiteError(
		messages.InstallMtaCFCLI,
		"Install the plugin: cf install-plugin multiapps",
		"Plugin source: "+messages.MultiappsInstallURL,
	)
}

// LoginRequired is returned when no Cloud Foundry org and space are targeted.
func LoginRequired() *CLIError {
	return NewPrerequisiteError(
		messages.LoginRequired,
		"Run 'cf login' and select an org and space",
	)
}

// TaskNotResolvable is returned when a task definition cannot be turned into a command.
func TaskNotResolvable(label, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("task %q cannot be resolved: %s", label, reason),
		"Check the task definition in the tasks file",
	)
}

// ConfigParseError is returned when a configuration file cannot be loaded.
func ConfigParseError(path string, err error) *CLIError {
	return NewConfigError(
		fmt.Sprintf("failed to load configuration %s: %v", path, err),
		"Fix the JSON syntax in the configuration file",
	)
}
