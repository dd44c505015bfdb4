package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mtatools/mtatools/internal/messages"
	"github.com/mtatools/mtatools/internal/shell"
	"github.com/mtatools/mtatools/internal/taskprovider"
	"github.com/mtatools/mtatools/internal/tools"
	"github.com/mtatools/mtatools/internal/workspace"
)

// DeployOptions configure a deployment.
type DeployOptions struct {
	// Path is the archive to deploy. Empty searches the workspace for *.mtar files.
	Path    string
	ExtPath string
}

// Deploy deploys one MTA archive. Archive selection follows the same rules
// as Build. When no org and space are targeted a single login is attempted;
// if it does not help, ErrNotLoggedIn is returned and nothing runs.
func Deploy(ctx context.Context, env *Environment, opts DeployOptions) (*Outcome, error) {
	if !env.Tools.MultiappsInstalled(ctx) {
		return nil, ErrPluginNotInstalled
	}

	archive, err := findArchive(ctx, env, opts.Path)
	if err != nil {
		return nil, err
	}

	if !tools.EnsureLoggedIn(ctx, env.Tools, env.Login, env.Log) {
		env.Log.Info(messages.CFLoginFail)
		return nil, ErrNotLoggedIn
	}

	def := taskprovider.Deploy{MtarPath: archive, ExtPath: opts.ExtPath}
	home, _ := os.UserHomeDir()
	task := taskprovider.Task{
		Definition: taskprovider.RawDefinition{
			Type:     taskprovider.TypeDeploy,
			Label:    messages.DeployMTA,
			TaskType: taskprovider.TaskTypeDeploy,
			MtarPath: archive,
			ExtPath:  opts.ExtPath,
		},
		Name:   messages.DeployMTA,
		Source: taskprovider.TypeDeploy,
		Execution: shell.Execution{
			Command: taskprovider.SynthesizeWith(def, env.Tools.MbtCommand(), env.Tools.CFCommand()),
			Cwd:     home,
		},
	}
	return env.run(ctx, task)
}

func findArchive(ctx context.Context, env *Environment, path string) (string, error) {
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", err
		}
		info, err := os.Stat(abs)
		if err != nil || info.IsDir() {
			return "", fmt.Errorf("%w: %s", ErrNoArchive, abs)
		}
		return workspace.NormalizePath(abs), nil
	}

	found, err := env.Workspace.Discover(ctx, "mtar", workspace.MtarPattern)
	if err != nil {
		return "", err
	}
	if len(found) == 0 {
		return "", ErrNoArchive
	}
	return env.choose(messages.SelectMtaArchive, found)
}
