package shared

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/mtatools/mtatools/internal/commands"
	"github.com/mtatools/mtatools/internal/config"
	apperrors "github.com/mtatools/mtatools/internal/errors"
	"github.com/mtatools/mtatools/internal/history"
	"github.com/mtatools/mtatools/internal/logging"
	"github.com/mtatools/mtatools/internal/notify"
	"github.com/mtatools/mtatools/internal/progress"
	"github.com/mtatools/mtatools/internal/prompt"
	"github.com/mtatools/mtatools/internal/shell"
	"github.com/mtatools/mtatools/internal/taskprovider"
	"github.com/mtatools/mtatools/internal/tools"
	"github.com/mtatools/mtatools/internal/workspace"
)

// Global flag names.
const (
	FlagConfig = "config"
	FlagDebug  = "debug"
	FlagFolder = "folder"
)

// App bundles the configured collaborators of one command invocation.
type App struct {
	Config     *config.Configuration
	Workspace  *workspace.Workspace
	Tools      *tools.Detector
	TaskRunner shell.TaskRunner
	Login      tools.Login
	Prompter   prompt.Prompter
	Out        io.Writer
	Err        io.Writer
	Log        logr.Logger
	// Progress is nil when no progress should be shown.
	Progress *progress.Display
}

// AppFactory builds the App for a command. folders overrides the --folder flag when non-empty.
type AppFactory func(cmd *cobra.Command, folders []string) (*App, error)

// NewApp loads the configuration named by the global flags and wires the
// real runners, prompt and login.
func NewApp(cmd *cobra.Command, folders []string) (*App, error) {
	configPath, _ := cmd.Flags().GetString(FlagConfig)
	debug, _ := cmd.Flags().GetBool(FlagDebug)
	if len(folders) == 0 {
		folders, _ = cmd.Flags().GetStringSlice(FlagFolder)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, WithExitCode(ExitInvalidArguments, apperrors.ConfigParseError(configPath, err))
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logging.InitWithWriter(cmd.ErrOrStderr(), level)
	if !cfg.Color {
		color.NoColor = true
	}

	if len(folders) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		folders = []string{cwd}
	}
	ws, err := workspace.New(folders, cfg.Exclude, logging.Named("workspace"))
	if err != nil {
		return nil, WithExitCode(ExitInvalidArguments, apperrors.NewArgumentError(err.Error()))
	}

	execRunner := shell.NewExecRunner(logging.Named("exec"))
	taskRunner := shell.NewShellTaskRunner(logging.Named("task"))
	var runner shell.TaskRunner = &history.Recorder{
		Runner: taskRunner,
		Writer: history.NewWriter(cfg.StateDir, cfg.MaxHistoryEntries),
		Log:    logging.Named("history"),
	}
	if cfg.Notify && !notify.InCI() {
		runner = &notify.Runner{
			Runner:    runner,
			Sender:    &notify.Desktop{Runner: execRunner, Log: logging.Named("notify")},
			Threshold: cfg.NotifyThresholdDuration(),
			Log:       logging.Named("notify"),
		}
	}

	caps := progress.DetectTerminalCapabilities()
	var display *progress.Display
	if caps.IsTTY {
		display = progress.NewDisplay(caps, cmd.ErrOrStderr())
	}

	return &App{
		Config:     cfg,
		Workspace:  ws,
		Tools:      tools.NewDetector(execRunner, tools.OptionsFromConfig(cfg), logging.Named("tools")),
		TaskRunner: runner,
		Login:      &tools.CFLogin{Runner: taskRunner, CFCommand: cfg.CFCmd},
		Prompter:   &prompt.PromptUI{Stdin: os.Stdin, Stdout: os.Stdout},
		Out:        cmd.OutOrStdout(),
		Err:        cmd.ErrOrStderr(),
		Log:        logging.Get(),
		Progress:   display,
	}, nil
}

// Environment returns the collaborators of the build and deploy flows.
func (a *App) Environment() *commands.Environment {
	return &commands.Environment{
		Workspace: a.Workspace,
		Tools:     a.Tools,
		Login:     a.Login,
		Prompter:  a.Prompter,
		Runner:    a.TaskRunner,
		Log:       a.Log.WithName("commands"),
	}
}

// Notifier prints provider notifications to the error stream.
func (a *App) Notifier() taskprovider.Notifier {
	return taskprovider.NotifierFunc(func(message string) {
		apperrors.FprintError(a.Err, apperrors.NewPrerequisiteError(message))
	})
}

// Step shows a progress step when progress is enabled and returns the
// function that completes or fails it.
func (a *App) Step(name string) func(err error) {
	if a.Progress == nil {
		return func(error) {}
	}
	step := progress.StepInfo{Name: name, Number: 1, TotalSteps: 1, Status: progress.StepInProgress}
	if err := a.Progress.Start(step); err != nil {
		return func(error) {}
	}
	return func(err error) {
		if err != nil {
			a.Progress.Fail(step, err)
			return
		}
		a.Progress.Complete(step)
	}
}
