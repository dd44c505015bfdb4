// Package tools detects the external CLIs mtatools drives (mbt, cf and the
// MultiApps cf plugin) and the Cloud Foundry login state.
package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mtatools/mtatools/internal/config"
	"github.com/mtatools/mtatools/internal/shell"
)

const (
	// DefaultMbtCommand is the Cloud MTA Build Tool executable.
	DefaultMbtCommand = "mbt"
	// DefaultCFCommand is the Cloud Foundry CLI executable.
	DefaultCFCommand = "cf"
	// MultiappsPlugin is the marker looked for in the cf plugin list.
	MultiappsPlugin = "multiapps"
)

// Status is the installation state of one CLI.
type Status struct {
	Installed bool
	Version   string
}

// CFAuthStatus is read from the cf CLI config file.
type CFAuthStatus struct {
	ConfigPath  string
	ConfigFound bool
	Target      string
	Org         string
	Space       string
}

// IsLoggedIn reports whether an org or a space is targeted.
func (s CFAuthStatus) IsLoggedIn() bool {
	return s.Org != "" || s.Space != ""
}

// RecommendedSetup returns a human-readable hint for the current state.
func (s CFAuthStatus) RecommendedSetup() string {
	if s.IsLoggedIn() {
		return "logged in to " + s.Target + " (org " + s.Org + ", space " + s.Space + ")"
	}
	if !s.ConfigFound {
		return "no cf CLI configuration found at " + s.ConfigPath + "; run 'cf login'"
	}
	return "run 'cf login' and target an org and space"
}

// Options configure a Detector. Empty fields use defaults.
type Options struct {
	MbtCommand string
	CFCommand  string
	// CFHome is the directory holding .cf/config.json. Defaults to $CF_HOME, then the home directory.
	CFHome  string
	Timeout time.Duration
}

// Detector runs the detection commands through a shell.Runner.
type Detector struct {
	runner shell.Runner
	opts   Options
	log    logr.Logger
}

// NewDetector creates a Detector.
func NewDetector(runner shell.Runner, opts Options, log logr.Logger) *Detector {
	if opts.MbtCommand == "" {
		opts.MbtCommand = DefaultMbtCommand
	}
	if opts.CFCommand == "" {
		opts.CFCommand = DefaultCFCommand
	}
	return &Detector{runner: runner, opts: opts, log: log}
}

// MbtCommand returns the configured mbt executable.
func (d *Detector) MbtCommand() string { return d.opts.MbtCommand }

// CFCommand returns the configured cf executable.
func (d *Detector) CFCommand() string { return d.opts.CFCommand }

// DetectMbt runs "mbt --version".
func (d *Detector) DetectMbt(ctx context.Context) Status {
	return d.detect(ctx, d.opts.MbtCommand)
}

// DetectCF runs "cf --version".
func (d *Detector) DetectCF(ctx context.Context) Status {
	return d.detect(ctx, d.opts.CFCommand)
}

func (d *Detector) detect(ctx context.Context, command string) Status {
	res, err := d.runner.Run(ctx, command, []string{"--version"}, shell.Options{Timeout: d.opts.Timeout})
	if err != nil {
		d.log.V(1).Info("tool not available", "command", command, "error", err.Error())
		return Status{}
	}
	if res.ExitCode != 0 {
		d.log.V(1).Info("tool version check failed", "command", command, "exitCode", res.ExitCode)
		return Status{}
	}
	return Status{Installed: true, Version: firstLine(res.Stdout)}
}

// MultiappsInstalled runs "cf plugins --checksum" in the home directory and
// looks for the MultiApps plugin in its output.
func (d *Detector) MultiappsInstalled(ctx context.Context) bool {
	home, _ := os.UserHomeDir()
	res, err := d.runner.Run(ctx, d.opts.CFCommand, []string{"plugins", "--checksum"}, shell.Options{
		Dir:     home,
		Timeout: d.opts.Timeout,
	})
	if err != nil {
		d.log.V(1).Info("cf plugin check failed", "error", err.Error())
		return false
	}
	return strings.Contains(res.Stdout, MultiappsPlugin)
}

// CFConfigPath returns <cf home>/.cf/config.json.
func (d *Detector) CFConfigPath() string {
	cfHome := d.opts.CFHome
	if cfHome == "" {
		cfHome = os.Getenv("CF_HOME")
	}
	if cfHome == "" {
		cfHome, _ = os.UserHomeDir()
	}
	return filepath.Join(cfHome, ".cf", "config.json")
}

// CFAuth reads the targeted org and space. A missing or unreadable config
// file means not logged in.
func (d *Detector) CFAuth() CFAuthStatus {
	status := CFAuthStatus{ConfigPath: d.CFConfigPath()}

	if _, err := os.Stat(status.ConfigPath); err != nil {
		return status
	}
	status.ConfigFound = true

	k := koanf.New(".")
	if err := k.Load(file.Provider(status.ConfigPath), json.Parser()); err != nil {
		d.log.V(1).Info("cannot read cf config", "path", status.ConfigPath, "error", err.Error())
		return status
	}

	status.Target = k.String("Target")
	status.Org = k.String("OrganizationFields.Name")
	status.Space = k.String("SpaceFields.Name")
	return status
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

// OptionsFromConfig maps the configuration keys relevant for detection.
func OptionsFromConfig(cfg *config.Configuration) Options {
	return Options{
		MbtCommand: cfg.MbtCmd,
		CFCommand:  cfg.CFCmd,
		CFHome:     cfg.CFHome,
		Timeout:    cfg.CommandTimeoutDuration(),
	}
}
