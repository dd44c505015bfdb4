// Package messages holds the user-facing strings of mtatools.
package messages

import "fmt"

const (
	BuildMTA  = "Build MTA Project"
	DeployMTA = "Deploy MTA Archive"

	SelectProjectDescriptor = "Select the folder containing the MTA project descriptor file (mta.yaml)"
	NoProjectDescriptor     = "Could not find a folder containing an MTA project descriptor file (mta.yaml)."
	NoMtaArchive            = "Could not find an MTA archive."
	SelectMtaArchive        = "Select MTA Archive"

	LoginViaCLI = "You must log into Cloud Foundry using the Cloud Foundry CLI to deploy your MTA archive. " +
		"Go to https://github.com/cloudfoundry/cli to install the CLI and try again"
	LoginRequired = "You are not logged in to Cloud Foundry. Log in with 'cf login' and target an org and space."
	CFLoginFail   = "Cloud Foundry login did not complete; the org and space are still unset"

	InstallMbt = "The Cloud MTA Build Tool is not installed in your environment. " +
		"Go to https://github.com/SAP/cloud-mta-build-tool to install the tool and try again"
	InstallMtaCFCLI = "The MultiApps CF CLI Plugin is not installed in your environment. " +
		"Go to https://github.com/cloudfoundry-incubator/multiapps-cli-plugin to install the plugin and try again."
	InstallCF = "The Cloud Foundry CLI is not installed in your environment. " +
		"Go to https://github.com/cloudfoundry/cli to install the CLI and try again"

	MbtInstallURL       = "https://github.com/SAP/cloud-mta-build-tool"
	MultiappsInstallURL = "https://github.com/cloudfoundry-incubator/multiapps-cli-plugin"
	CFInstallURL        = "https://github.com/cloudfoundry/cli"

	MtaExtPathValidationErr       = "Enter a valid path to an existing MTA extension descriptor file (.mtaext)"
	TargetFolderPathValidationErr = "Enter a valid path to an existing folder"
	ModulesValidationErr          = "Select at least one module"

	TargetFolderPathHint       = "The folder in which the MTA archive is created. Leave empty for the default folder."
	ModuleTargetFolderPathHint = "The folder in which the module build results are created. Leave empty for the default folder."
	MtarFileNameHint           = "The name of the MTA archive file. Leave empty for the default name."
	MtaExtPathHint             = "The path to the MTA extension descriptor file (.mtaext)"
	MtarPathHint               = "The path to the MTA archive (.mtar) to deploy"
	BuildWithDepsHint          = "Build the selected modules together with the modules they depend on"

	AutoDetectBuildFailure  = "Auto-detecting MTA build tasks failed"
	AutoDetectDeployFailure = "Auto-detecting MTA deploy tasks failed"
)

// MtaPropertyMissing is logged when a build task has no mtaFilePath.
func MtaPropertyMissing(task string) string {
	return fmt.Sprintf("The %q task is missing the mtaFilePath property", task)
}

// BuildTypePropertyMissing is logged when a build task has no buildType.
func BuildTypePropertyMissing(task string) string {
	return fmt.Sprintf("The %q task is missing the buildType property", task)
}

// ModulesPropertyMissing is logged when a module build task lists no modules.
func ModulesPropertyMissing(task string) string {
	return fmt.Sprintf("The %q task is missing the modules property", task)
}

// MtarPropertyMissing is logged when a deploy task has no mtarPath.
func MtarPropertyMissing(task string) string {
	return fmt.Sprintf("The %q task is missing the mtarPath property", task)
}

// NoWorkspaceFolder is logged when a discovered file is outside every workspace folder.
func NoWorkspaceFolder(path string) string {
	return fmt.Sprintf("Could not find a workspace folder for %s", path)
}

// DiagnosticsCollectionName names the diagnostics collection of one project.
func DiagnosticsCollectionName(projectDir string) string {
	return "Diagnostics for project: " + projectDir
}
