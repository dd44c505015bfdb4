package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mtatools/mtatools/internal/messages"
	"github.com/mtatools/mtatools/internal/shell"
	"github.com/mtatools/mtatools/internal/taskprovider"
	"github.com/mtatools/mtatools/internal/workspace"
)

// BuildOptions configure a project build.
type BuildOptions struct {
	// Path is an mta.yaml file or the folder holding it. Empty searches the workspace.
	Path           string
	MtarTargetPath string
	MtarName       string
	ExtPath        string
}

// Build builds one MTA project. Without a path, every mta.yaml in the
// workspace is a candidate: none is an error, one is used directly, several
// are offered for selection.
func Build(ctx context.Context, env *Environment, opts BuildOptions) (*Outcome, error) {
	if !env.Tools.DetectMbt(ctx).Installed {
		return nil, ErrMbtNotInstalled
	}

	descriptor, err := findDescriptor(ctx, env, opts.Path)
	if err != nil {
		return nil, err
	}

	def := taskprovider.ProjectBuild{
		MtaFilePath:    descriptor,
		MtarTargetPath: opts.MtarTargetPath,
		MtarName:       opts.MtarName,
		ExtPath:        opts.ExtPath,
	}
	home, _ := os.UserHomeDir()
	task := taskprovider.Task{
		Definition: taskprovider.RawDefinition{
			Type:           taskprovider.TypeBuild,
			Label:          messages.BuildMTA,
			TaskType:       taskprovider.TaskTypeBuild,
			MtaFilePath:    descriptor,
			BuildType:      taskprovider.BuildProject,
			MtarTargetPath: opts.MtarTargetPath,
			MtarName:       opts.MtarName,
			ExtPath:        opts.ExtPath,
		},
		Name:   messages.BuildMTA,
		Source: taskprovider.TypeBuild,
		Execution: shell.Execution{
			Command: taskprovider.SynthesizeWith(def, env.Tools.MbtCommand(), env.Tools.CFCommand()),
			Cwd:     home,
		},
	}
	return env.run(ctx, task)
}

func findDescriptor(ctx context.Context, env *Environment, path string) (string, error) {
	if path != "" {
		if filepath.Base(path) != workspace.MtaYaml {
			path = filepath.Join(path, workspace.MtaYaml)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(abs); err != nil {
			return "", fmt.Errorf("%w: %s", ErrNoDescriptor, abs)
		}
		return workspace.NormalizePath(abs), nil
	}

	found, err := env.Workspace.Discover(ctx, workspace.MtaYaml, workspace.MtaYamlPattern)
	if err != nil {
		return "", err
	}
	if len(found) == 0 {
		return "", ErrNoDescriptor
	}

	dirs := make([]string, len(found))
	for i, p := range found {
		dirs[i] = filepath.Dir(p)
	}
	dir, err := env.choose(messages.SelectProjectDescriptor, dirs)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, workspace.MtaYaml), nil
}
