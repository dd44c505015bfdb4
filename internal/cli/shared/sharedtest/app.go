// Package sharedtest builds CLI apps wired to test fakes.
package sharedtest

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/mtatools/mtatools/internal/cli/shared"
	"github.com/mtatools/mtatools/internal/config"
	"github.com/mtatools/mtatools/internal/testutil"
	"github.com/mtatools/mtatools/internal/tools"
	"github.com/mtatools/mtatools/internal/workspace"
)

// AppOptions configure NewAppFactory. Nil fakes are created.
type AppOptions struct {
	Runner     *testutil.FakeRunner
	TaskRunner *testutil.FakeTaskRunner
	Prompter   *testutil.FakePrompter
	Login      tools.Login
	Folders    []string
	// CFHome holds .cf/config.json; empty uses a fresh temp dir (not logged in).
	CFHome string
	// StateDir holds the run history; empty uses a fresh temp dir.
	StateDir string
}

// NewAppFactory returns an AppFactory wiring fakes instead of real processes.
// Command output goes to the command's out and err writers.
func NewAppFactory(t *testing.T, opts AppOptions) shared.AppFactory {
	t.Helper()

	if opts.Runner == nil {
		opts.Runner = testutil.NewFakeRunner()
	}
	if opts.TaskRunner == nil {
		opts.TaskRunner = &testutil.FakeTaskRunner{}
	}
	if opts.Prompter == nil {
		opts.Prompter = &testutil.FakePrompter{}
	}
	if opts.CFHome == "" {
		opts.CFHome = t.TempDir()
	}
	if opts.StateDir == "" {
		opts.StateDir = t.TempDir()
	}

	return func(cmd *cobra.Command, folders []string) (*shared.App, error) {
		if len(folders) == 0 {
			folders = opts.Folders
		}
		ws, err := workspace.New(folders, workspace.DefaultExclude, logr.Discard())
		if err != nil {
			return nil, err
		}
		cfg := &config.Configuration{
			MbtCmd:                tools.DefaultMbtCommand,
			CFCmd:                 tools.DefaultCFCommand,
			CFHome:                opts.CFHome,
			LogLevel:              "error",
			Exclude:               workspace.DefaultExclude,
			CommandTimeout:        30,
			RevalidateConcurrency: 2,
			StateDir:              opts.StateDir,
			MaxHistoryEntries:     100,
		}
		return &shared.App{
			Config:     cfg,
			Workspace:  ws,
			Tools:      tools.NewDetector(opts.Runner, tools.OptionsFromConfig(cfg), logr.Discard()),
			TaskRunner: opts.TaskRunner,
			Login:      opts.Login,
			Prompter:   opts.Prompter,
			Out:        cmd.OutOrStdout(),
			Err:        cmd.ErrOrStderr(),
			Log:        logr.Discard(),
		}, nil
	}
}
