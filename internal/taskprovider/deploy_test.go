package taskprovider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtatools/mtatools/internal/messages"
	"github.com/mtatools/mtatools/internal/shell"
	"github.com/mtatools/mtatools/internal/testutil"
	"github.com/mtatools/mtatools/internal/tools"
)

const pluginsOutput = "Listing installed plugins...\n\nplugin      version   command name\nmultiapps   3.0.0     deploy"

func TestDeployProvider_ProvideTasks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mtar := testutil.CreateTempMtar(t, filepath.Join(root, "proj", "mta_archives"), "app_1.0.0.mtar")
	testutil.CreateTempMtar(t, filepath.Join(root, "node_modules", "x"), "dep.mtar")
	home, _ := os.UserHomeDir()

	p := NewDeployProvider(newWorkspace(t, root), newDetector(testutil.NewFakeRunner(), t.TempDir()), nil, &recordingNotifier{}, logr.Discard())
	tasks := p.ProvideTasks(context.Background())

	require.Len(t, tasks, 1)
	task := tasks[0]
	label := "Template: Deploy " + filepath.Base(root) + "/proj/mta_archives/app_1.0.0.mtar"
	assert.Equal(t, label, task.Name)
	assert.Equal(t, TypeDeploy, task.Source)
	assert.Equal(t, RawDefinition{Type: TypeDeploy, Label: label, TaskType: TaskTypeDeploy, MtarPath: mtar}, task.Definition)
	assert.Equal(t, `cf deploy "`+mtar+`"; sleep 2;`, task.Execution.Command)
	assert.Equal(t, home, task.Execution.Cwd)
}

type loginFunc func(ctx context.Context) error

func (f loginFunc) Login(ctx context.Context) error { return f(ctx) }

func TestDeployProvider_ResolveTask(t *testing.T) {
	t.Parallel()

	home, _ := os.UserHomeDir()
	raw := RawDefinition{Type: TypeDeploy, Label: "deploy", MtarPath: "/w/a.mtar", ExtPath: "/w/prod.mtaext"}

	tests := map[string]struct {
		runner     *testutil.FakeRunner
		loggedIn   bool
		loginWorks bool
		loginErr   error
		raw        RawDefinition
		wantErr    error
		wantNotice []string
		wantLogins int
	}{
		"logged in": {
			runner:   testutil.NewFakeRunner().WithStdout("cf plugins --checksum", pluginsOutput),
			loggedIn: true,
			raw:      raw,
		},
		"login succeeds": {
			runner:     testutil.NewFakeRunner().WithStdout("cf plugins --checksum", pluginsOutput),
			loginWorks: true,
			raw:        raw,
			wantLogins: 1,
		},
		"login does not target a space": {
			runner:     testutil.NewFakeRunner().WithStdout("cf plugins --checksum", pluginsOutput),
			raw:        raw,
			wantErr:    ErrNotLoggedIn,
			wantNotice: []string{messages.LoginRequired},
			wantLogins: 1,
		},
		"login fails": {
			runner:     testutil.NewFakeRunner().WithStdout("cf plugins --checksum", pluginsOutput),
			loginErr:   errors.New("cf login exited with code 1"),
			raw:        raw,
			wantErr:    ErrNotLoggedIn,
			wantNotice: []string{messages.LoginRequired},
			wantLogins: 1,
		},
		"plugin missing": {
			runner:     testutil.NewFakeRunner().WithStdout("cf plugins --checksum", "Listing installed plugins...\n\nNo plugins found."),
			loggedIn:   true,
			raw:        raw,
			wantErr:    ErrToolMissing,
			wantNotice: []string{messages.InstallMtaCFCLI},
		},
		"cf missing": {
			runner:     testutil.NewFakeRunner(),
			loggedIn:   true,
			raw:        raw,
			wantErr:    ErrToolMissing,
			wantNotice: []string{messages.InstallMtaCFCLI},
		},
		"missing mtarPath": {
			runner:   testutil.NewFakeRunner().WithStdout("cf plugins --checksum", pluginsOutput),
			loggedIn: true,
			raw:      RawDefinition{Type: TypeDeploy, Label: "deploy"},
			wantErr:  ErrMissingField,
		},
		"build definition": {
			runner:   testutil.NewFakeRunner().WithStdout("cf plugins --checksum", pluginsOutput),
			loggedIn: true,
			raw:      RawDefinition{Type: TypeBuild, Label: "b"},
			wantErr:  ErrUnsupportedType,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfHome := t.TempDir()
			if tt.loggedIn {
				testutil.WriteCFConfig(t, cfHome, "org", "dev")
			}
			logins := 0
			login := loginFunc(func(context.Context) error {
				logins++
				if tt.loginWorks {
					testutil.WriteCFConfig(t, cfHome, "org", "dev")
				}
				return tt.loginErr
			})
			notifier := &recordingNotifier{}
			p := NewDeployProvider(newWorkspace(t), newDetector(tt.runner, cfHome), login, notifier, logr.Discard())

			task, err := p.ResolveTask(context.Background(), tt.raw)
			assert.Equal(t, tt.wantNotice, notifier.Messages())
			assert.Equal(t, tt.wantLogins, logins)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, task)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, task)
			assert.Equal(t, `cf deploy "/w/a.mtar" -e "/w/prod.mtaext"; sleep 2;`, task.Execution.Command)
			assert.Equal(t, home, task.Execution.Cwd)
			assert.Equal(t, TypeDeploy, task.Source)
		})
	}
}

func TestDeployProvider_ResolveTask_NilWorkspace(t *testing.T) {
	t.Parallel()

	p := NewDeployProvider(nil, newDetector(testutil.NewFakeRunner(), t.TempDir()), nil, &recordingNotifier{}, logr.Discard())
	task, err := p.ResolveTask(context.Background(), RawDefinition{Type: TypeDeploy, Label: "d", MtarPath: "/a.mtar"})
	assert.ErrorIs(t, err, ErrNoWorkspace)
	assert.Nil(t, task)
}

func TestDeployProvider_ResolveTask_CFLoginTask(t *testing.T) {
	t.Parallel()

	cfHome := t.TempDir()
	taskRunner := &testutil.FakeTaskRunner{
		OnExecute: func(shell.Execution) { testutil.WriteCFConfig(t, cfHome, "org", "dev") },
	}
	runner := testutil.NewFakeRunner().WithStdout("cf plugins --checksum", pluginsOutput)
	login := &tools.CFLogin{Runner: taskRunner, CFCommand: "cf"}

	p := NewDeployProvider(newWorkspace(t), newDetector(runner, cfHome), login, &recordingNotifier{}, logr.Discard())
	task, err := p.ResolveTask(context.Background(), RawDefinition{Type: TypeDeploy, Label: "d", MtarPath: "/a.mtar"})
	require.NoError(t, err)
	require.NotNil(t, task)

	execs := taskRunner.Executions()
	require.Len(t, execs, 1)
	assert.Equal(t, "cf login", execs[0].Execution.Command)
}

func TestDeployProvider_ResolveTask_RemembersInstalledPlugin(t *testing.T) {
	t.Parallel()

	cfHome := t.TempDir()
	testutil.WriteCFConfig(t, cfHome, "org", "dev")
	runner := testutil.NewFakeRunner().
		WithStdout("cf plugins --checksum", "Plugin Name  Version\n").
		WithStdout("cf plugins --checksum", pluginsOutput)
	notifier := &recordingNotifier{}
	p := NewDeployProvider(newWorkspace(t), newDetector(runner, cfHome), nil, notifier, logr.Discard())
	raw := RawDefinition{Type: TypeDeploy, Label: "d", MtarPath: "/a.mtar"}

	_, err := p.ResolveTask(context.Background(), raw)
	assert.ErrorIs(t, err, ErrToolMissing)

	for i := 0; i < 2; i++ {
		task, err := p.ResolveTask(context.Background(), raw)
		require.NoError(t, err)
		require.NotNil(t, task)
	}
	assert.Equal(t, 2, runner.CallCount("cf plugins --checksum"))
	assert.Equal(t, []string{messages.InstallMtaCFCLI}, notifier.Messages())
}
