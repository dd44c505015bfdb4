// Package history records the build and deploy tasks mtatools ran, with
// their exit codes and durations, in a YAML file below the state directory.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the name of the history file.
	FileName = "history.yaml"
	// BackupSuffix is appended to a history file that cannot be parsed.
	BackupSuffix = ".backup"
)

// Status values of an entry.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Entry is one task run.
type Entry struct {
	ID        string    `yaml:"id" json:"id"`
	Task      string    `yaml:"task" json:"task"`
	Command   string    `yaml:"command" json:"command"`
	Cwd       string    `yaml:"cwd,omitempty" json:"cwd,omitempty"`
	Status    string    `yaml:"status" json:"status"`
	StartedAt time.Time `yaml:"started_at" json:"startedAt"`
	// CompletedAt is nil while the task runs.
	CompletedAt *time.Time `yaml:"completed_at,omitempty" json:"completedAt,omitempty"`
	ExitCode    int        `yaml:"exit_code" json:"exitCode"`
	// Duration uses time.Duration formatting, e.g. "1m2.5s".
	Duration string `yaml:"duration,omitempty" json:"duration,omitempty"`
}

// File is the content of the history file, oldest entry first.
type File struct {
	Entries []Entry `yaml:"entries"`
}

// Load reads the history file in stateDir. A missing file is an empty
// history; an unparsable one is moved aside and an empty history returned.
func Load(stateDir string) (*File, error) {
	path := filepath.Join(stateDir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{Entries: []Entry{}}, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		if err := os.Rename(path, path+BackupSuffix); err != nil {
			return nil, fmt.Errorf("backing up corrupted history file: %w", err)
		}
		return &File{Entries: []Entry{}}, nil
	}
	if f.Entries == nil {
		f.Entries = []Entry{}
	}
	return &f, nil
}

// Save writes f to stateDir through a temp file and a rename.
func Save(stateDir string, f *File) error {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}

	path := filepath.Join(stateDir, FileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing temp history file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming temp history file: %w", err)
	}
	return nil
}

// Clear removes all entries.
func Clear(stateDir string) error {
	return Save(stateDir, &File{Entries: []Entry{}})
}
