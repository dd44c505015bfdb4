package taskprovider

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtatools/mtatools/internal/messages"
	"github.com/mtatools/mtatools/internal/testutil"
)

func TestBuildProvider_ProvideTasks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	proj := testutil.CreateTempProject(t, root, "proj", "core")
	testutil.CreateTempProject(t, filepath.Join(root, "node_modules"), "dep")

	p := NewBuildProvider(newWorkspace(t, root), newDetector(testutil.NewFakeRunner(), t.TempDir()), &recordingNotifier{}, logr.Discard())
	tasks := p.ProvideTasks(context.Background())

	require.Len(t, tasks, 1)
	task := tasks[0]
	label := "Template: Build MTA based on " + filepath.Base(root) + "/proj/mta.yaml"
	assert.Equal(t, label, task.Name)
	assert.Equal(t, TypeBuild, task.Source)
	assert.Equal(t, root, task.Scope)
	assert.Equal(t, RawDefinition{
		Type:        TypeBuild,
		Label:       label,
		TaskType:    TaskTypeBuild,
		MtaFilePath: proj,
		BuildType:   BuildProject,
	}, task.Definition)
	assert.Equal(t, `mbt build -s "`+filepath.Dir(proj)+`"; sleep 2;`, task.Execution.Command)
	assert.Equal(t, filepath.Dir(proj), task.Execution.Cwd)
}

func TestBuildProvider_ProvideTasks_NoFolders(t *testing.T) {
	t.Parallel()

	p := NewBuildProvider(newWorkspace(t), newDetector(testutil.NewFakeRunner(), ""), &recordingNotifier{}, logr.Discard())
	tasks := p.ProvideTasks(context.Background())
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	p = NewBuildProvider(nil, newDetector(testutil.NewFakeRunner(), ""), &recordingNotifier{}, logr.Discard())
	assert.Empty(t, p.ProvideTasks(context.Background()))
}

func TestBuildProvider_ResolveTask(t *testing.T) {
	t.Parallel()

	installed := func() *testutil.FakeRunner {
		return testutil.NewFakeRunner().WithStdout("mbt --version", "Cloud MTA Build Tool version 1.2.27")
	}

	tests := map[string]struct {
		folders     bool
		runner      *testutil.FakeRunner
		raw         RawDefinition
		wantErr     error
		wantCommand string
		wantCwd     string
		wantNotice  []string
	}{
		"module build": {
			folders: true,
			runner:  installed(),
			raw: RawDefinition{
				Type:             TypeBuild,
				Label:            "core",
				MtaFilePath:      "proj/mta.yaml",
				BuildType:        BuildModule,
				Modules:          []string{"core"},
				Dependencies:     []string{BuildWithDependencies},
				TargetFolderPath: "out",
				ExtPath:          "e.mtaext",
			},
			wantCommand: `mbt module-build -m "core" -s "proj" -g -a -t "out" -e "e.mtaext"; sleep 2;`,
			wantCwd:     "proj",
		},
		"project build": {
			folders:     true,
			runner:      installed(),
			raw:         RawDefinition{Type: TypeBuild, Label: "all", MtaFilePath: "/w/proj/mta.yaml", BuildType: BuildProject},
			wantCommand: `mbt build -s "/w/proj"; sleep 2;`,
			wantCwd:     "/w/proj",
		},
		"no workspace folders": {
			runner:  installed(),
			raw:     RawDefinition{Type: TypeBuild, Label: "all", MtaFilePath: "/w/proj/mta.yaml", BuildType: BuildProject},
			wantErr: ErrNoWorkspace,
		},
		"deploy definition": {
			folders: true,
			runner:  installed(),
			raw:     RawDefinition{Type: TypeDeploy, Label: "d", MtarPath: "/a.mtar"},
			wantErr: ErrUnsupportedType,
		},
		"missing modules": {
			folders: true,
			runner:  installed(),
			raw:     RawDefinition{Type: TypeBuild, Label: "m", MtaFilePath: "/w/proj/mta.yaml", BuildType: BuildModule},
			wantErr: ErrMissingField,
		},
		"mbt not installed": {
			folders:    true,
			runner:     testutil.NewFakeRunner(),
			raw:        RawDefinition{Type: TypeBuild, Label: "all", MtaFilePath: "/w/proj/mta.yaml", BuildType: BuildProject},
			wantErr:    ErrToolMissing,
			wantNotice: []string{messages.InstallMbt},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var folders []string
			if tt.folders {
				folders = []string{t.TempDir()}
			}
			notifier := &recordingNotifier{}
			p := NewBuildProvider(newWorkspace(t, folders...), newDetector(tt.runner, t.TempDir()), notifier, logr.Discard())

			task, err := p.ResolveTask(context.Background(), tt.raw)
			assert.Equal(t, tt.wantNotice, notifier.Messages())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, task)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, task)
			assert.Equal(t, tt.raw, task.Definition)
			assert.Equal(t, tt.raw.Label, task.Name)
			assert.Equal(t, TypeBuild, task.Source)
			assert.Equal(t, tt.wantCommand, task.Execution.Command)
			assert.Equal(t, tt.wantCwd, task.Execution.Cwd)
		})
	}
}

func TestBuildProvider_ResolveTask_RemembersInstalledMbt(t *testing.T) {
	t.Parallel()

	runner := testutil.NewFakeRunner().
		WithError("mbt --version", testutil.ErrNotFound).
		WithStdout("mbt --version", "1.2.3")
	notifier := &recordingNotifier{}
	p := NewBuildProvider(newWorkspace(t, t.TempDir()), newDetector(runner, t.TempDir()), notifier, logr.Discard())
	raw := RawDefinition{Type: TypeBuild, Label: "all", MtaFilePath: "/w/proj/mta.yaml", BuildType: BuildProject}

	task, err := p.ResolveTask(context.Background(), raw)
	assert.ErrorIs(t, err, ErrToolMissing)
	assert.Nil(t, task)

	// mbt installed after the first failure
	for i := 0; i < 2; i++ {
		task, err = p.ResolveTask(context.Background(), raw)
		require.NoError(t, err)
		require.NotNil(t, task)
	}
	assert.Equal(t, 2, runner.CallCount("mbt --version"))
	assert.Equal(t, []string{messages.InstallMbt}, notifier.Messages())
}

func TestBuildProvider_ResolveTask_RechecksMissingMbt(t *testing.T) {
	t.Parallel()

	runner := testutil.NewFakeRunner()
	notifier := &recordingNotifier{}
	p := NewBuildProvider(newWorkspace(t, t.TempDir()), newDetector(runner, t.TempDir()), notifier, logr.Discard())
	raw := RawDefinition{Type: TypeBuild, Label: "all", MtaFilePath: "/w/proj/mta.yaml", BuildType: BuildProject}

	for i := 0; i < 3; i++ {
		task, err := p.ResolveTask(context.Background(), raw)
		assert.ErrorIs(t, err, ErrToolMissing)
		assert.Nil(t, task)
	}
	assert.Equal(t, 3, runner.CallCount("mbt --version"))
	assert.Len(t, notifier.Messages(), 3)
}
