package taskprovider

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"github.com/mtatools/mtatools/internal/messages"
	"github.com/mtatools/mtatools/internal/shell"
	"github.com/mtatools/mtatools/internal/workspace"
)

// BuildProvider provides and resolves build-mta tasks.
type BuildProvider struct {
	ws       *workspace.Workspace
	tools    Toolchain
	notifier Notifier
	log      logr.Logger

	mu           sync.Mutex
	mbtInstalled bool
}

// NewBuildProvider creates a build task provider. A successful mbt check is
// remembered for the lifetime of the provider; a failed one is repeated.
func NewBuildProvider(ws *workspace.Workspace, tc Toolchain, notifier Notifier, log logr.Logger) *BuildProvider {
	return &BuildProvider{ws: ws, tools: tc, notifier: notifier, log: log}
}

// ProvideTasks returns a project build task for every mta.yaml in the workspace.
func (p *BuildProvider) ProvideTasks(ctx context.Context) []Task {
	tasks := []Task{}
	if p.ws == nil || len(p.ws.Folders()) == 0 {
		return tasks
	}

	paths, err := p.ws.Discover(ctx, workspace.MtaYaml, workspace.MtaYamlPattern)
	if err != nil {
		p.log.Error(err, messages.AutoDetectBuildFailure)
		return tasks
	}

	for _, path := range paths {
		folder, rel, ok := p.ws.FolderFor(path)
		if !ok {
			continue
		}
		label := fmt.Sprintf("Template: Build MTA based on %s", rel)
		def := ProjectBuild{MtaFilePath: path}
		tasks = append(tasks, Task{
			Definition: RawDefinition{
				Type:        TypeBuild,
				Label:       label,
				TaskType:    TaskTypeBuild,
				MtaFilePath: path,
				BuildType:   BuildProject,
			},
			Scope:  folder.Path,
			Name:   label,
			Source: TypeBuild,
			Execution: shell.Execution{
				Command: SynthesizeWith(def, p.tools.MbtCommand(), p.tools.CFCommand()),
				Cwd:     ProjectDir(path),
			},
		})
	}
	return tasks
}

// ResolveTask turns a build-mta definition into a task. The returned error
// names the reason when the definition does not resolve.
func (p *BuildProvider) ResolveTask(ctx context.Context, raw RawDefinition) (*Task, error) {
	if p.ws == nil || len(p.ws.Folders()) == 0 {
		return nil, ErrNoWorkspace
	}
	if raw.Type != TypeBuild {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedType, raw.Type)
	}

	def, err := Decode(raw)
	if err != nil {
		p.log.Error(err, "cannot resolve build task", "task", raw.Label)
		return nil, err
	}

	if !p.mbtAvailable(ctx) {
		p.notifier.ShowError(messages.InstallMbt)
		return nil, fmt.Errorf("%w: %s", ErrToolMissing, p.tools.MbtCommand())
	}

	return &Task{
		Definition: raw,
		Name:       raw.Label,
		Source:     TypeBuild,
		Execution: shell.Execution{
			Command: SynthesizeWith(def, p.tools.MbtCommand(), p.tools.CFCommand()),
			Cwd:     ProjectDir(raw.MtaFilePath),
		},
	}, nil
}

func (p *BuildProvider) mbtAvailable(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mbtInstalled {
		p.mbtInstalled = p.tools.DetectMbt(ctx).Installed
	}
	return p.mbtInstalled
}
