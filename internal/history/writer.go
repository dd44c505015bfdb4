package history

import (
	"fmt"
	"sync"
	"time"
)

// Writer appends and completes entries, keeping at most MaxEntries.
type Writer struct {
	StateDir string
	// MaxEntries of zero keeps every entry.
	MaxEntries int

	mu  sync.Mutex
	now func() time.Time
}

// NewWriter creates a Writer.
func NewWriter(stateDir string, maxEntries int) *Writer {
	return &Writer{StateDir: stateDir, MaxEntries: maxEntries, now: time.Now}
}

func (w *Writer) clock() time.Time {
	if w.now == nil {
		return time.Now()
	}
	return w.now()
}

// Start records a running entry and returns its ID.
func (w *Writer) Start(task, command, cwd string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock()
	id, err := GenerateID(now)
	if err != nil {
		return "", err
	}

	f, err := Load(w.StateDir)
	if err != nil {
		return "", fmt.Errorf("loading history: %w", err)
	}
	f.Entries = append(f.Entries, Entry{
		ID:        id,
		Task:      task,
		Command:   command,
		Cwd:       cwd,
		Status:    StatusRunning,
		StartedAt: now,
	})
	if w.MaxEntries > 0 && len(f.Entries) > w.MaxEntries {
		f.Entries = f.Entries[len(f.Entries)-w.MaxEntries:]
	}

	if err := Save(w.StateDir, f); err != nil {
		return "", fmt.Errorf("saving history: %w", err)
	}
	return id, nil
}

// Complete sets the final status, exit code and duration of entry id.
func (w *Writer) Complete(id string, exitCode int, status string, duration time.Duration) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := Load(w.StateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	found := false
	for i := range f.Entries {
		if f.Entries[i].ID != id {
			continue
		}
		now := w.clock()
		f.Entries[i].Status = status
		f.Entries[i].ExitCode = exitCode
		f.Entries[i].Duration = duration.Round(time.Millisecond).String()
		f.Entries[i].CompletedAt = &now
		found = true
		break
	}
	if !found {
		return fmt.Errorf("history entry %s not found", id)
	}

	if err := Save(w.StateDir, f); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

// Recent returns the last limit entries matching status, oldest first.
// Zero limit and empty status mean no restriction.
func Recent(stateDir string, limit int, status string) ([]Entry, error) {
	f, err := Load(stateDir)
	if err != nil {
		return nil, err
	}

	entries := []Entry{}
	for _, e := range f.Entries {
		if status == "" || e.Status == status {
			entries = append(entries, e)
		}
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}
