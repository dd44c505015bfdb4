package taskprovider

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/go-logr/logr"

	"github.com/mtatools/mtatools/internal/messages"
	"github.com/mtatools/mtatools/internal/shell"
	"github.com/mtatools/mtatools/internal/tools"
	"github.com/mtatools/mtatools/internal/workspace"
)

// DeployProvider provides and resolves deploy-mta tasks.
type DeployProvider struct {
	ws       *workspace.Workspace
	tools    Toolchain
	login    tools.Login
	notifier Notifier
	log      logr.Logger

	mu              sync.Mutex
	pluginInstalled bool
}

// NewDeployProvider creates a deploy task provider. A successful MultiApps
// plugin check is remembered; a failed one is repeated. login may be nil, in which case no login is attempted.
func NewDeployProvider(ws *workspace.Workspace, tc Toolchain, login tools.Login, notifier Notifier, log logr.Logger) *DeployProvider {
	return &DeployProvider{ws: ws, tools: tc, login: login, notifier: notifier, log: log}
}

// ProvideTasks returns a deploy task for every .mtar archive in the workspace.
func (p *DeployProvider) ProvideTasks(ctx context.Context) []Task {
	tasks := []Task{}
	if p.ws == nil || len(p.ws.Folders()) == 0 {
		return tasks
	}

	paths, err := p.ws.Discover(ctx, "mtar", workspace.MtarPattern)
	if err != nil {
		p.log.Error(err, messages.AutoDetectDeployFailure)
		return tasks
	}

	home, _ := os.UserHomeDir()
	for _, path := range paths {
		folder, rel, ok := p.ws.FolderFor(path)
		if !ok {
			continue
		}
		label := fmt.Sprintf("Template: Deploy %s", rel)
		tasks = append(tasks, Task{
			Definition: RawDefinition{
				Type:     TypeDeploy,
				Label:    label,
				TaskType: TaskTypeDeploy,
				MtarPath: path,
			},
			Scope:  folder.Path,
			Name:   label,
			Source: TypeDeploy,
			Execution: shell.Execution{
				Command: SynthesizeWith(Deploy{MtarPath: path}, p.tools.MbtCommand(), p.tools.CFCommand()),
				Cwd:     home,
			},
		})
	}
	return tasks
}

// ResolveTask turns a deploy-mta definition into a task. When no org and space
// are targeted, one login is attempted; if that does not help the definition
// does not resolve.
func (p *DeployProvider) ResolveTask(ctx context.Context, raw RawDefinition) (*Task, error) {
	if p.ws == nil {
		return nil, ErrNoWorkspace
	}
	if raw.Type != TypeDeploy {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedType, raw.Type)
	}

	def, err := Decode(raw)
	if err != nil {
		p.log.Error(err, "cannot resolve deploy task", "task", raw.Label)
		return nil, err
	}

	if !p.pluginAvailable(ctx) {
		p.notifier.ShowError(messages.InstallMtaCFCLI)
		return nil, fmt.Errorf("%w: %s plugin", ErrToolMissing, tools.MultiappsPlugin)
	}

	if !tools.EnsureLoggedIn(ctx, p.tools, p.login, p.log) {
		p.log.Info(messages.CFLoginFail)
		p.notifier.ShowError(messages.LoginRequired)
		return nil, ErrNotLoggedIn
	}

	home, _ := os.UserHomeDir()
	return &Task{
		Definition: raw,
		Name:       raw.Label,
		Source:     TypeDeploy,
		Execution: shell.Execution{
			Command: SynthesizeWith(def, p.tools.MbtCommand(), p.tools.CFCommand()),
			Cwd:     home,
		},
	}, nil
}

func (p *DeployProvider) pluginAvailable(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.pluginInstalled {
		p.pluginInstalled = p.tools.MultiappsInstalled(ctx)
	}
	return p.pluginInstalled
}
