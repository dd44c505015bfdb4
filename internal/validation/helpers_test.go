package validation

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"github.com/mtatools/mtatools/internal/diagnostics"
	"github.com/mtatools/mtatools/internal/mta"
	"github.com/mtatools/mtatools/internal/workspace"
)

type validateCall struct {
	projectDir string
	extensions []string
}

// eventLog records collection and validator activity in order.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(event string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) Events() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

// fakeValidator returns canned results and records every call.
type fakeValidator struct {
	mu      sync.Mutex
	calls   []validateCall
	results map[string]map[string][]mta.Issue
	err     error
	log     *eventLog
}

func (f *fakeValidator) Validate(_ context.Context, projectDir string, extensions []string) (map[string][]mta.Issue, error) {
	f.log.add("validate " + projectDir)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, validateCall{projectDir: projectDir, extensions: extensions})
	if f.err != nil {
		return nil, f.err
	}
	return f.results[projectDir], nil
}

func (f *fakeValidator) Calls() []validateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]validateCall(nil), f.calls...)
}

// recordingFactory wraps a Store and records the entries of every Set call
// per collection. Set and Clear calls also go to log.
type recordingFactory struct {
	store *diagnostics.Store
	log   *eventLog
	mu    sync.Mutex
	sets  map[string][][]diagnostics.Entry
}

func newRecordingFactory(log *eventLog) *recordingFactory {
	return &recordingFactory{store: diagnostics.NewStore(), log: log, sets: make(map[string][][]diagnostics.Entry)}
}

func (f *recordingFactory) CreateCollection(name string) diagnostics.Collection {
	return &recordingCollection{Collection: f.store.CreateCollection(name), factory: f}
}

func (f *recordingFactory) Sets(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sets[name])
}

// LastSet returns the entries passed to the latest Set of the collection.
func (f *recordingFactory) LastSet(name string) []diagnostics.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := f.sets[name]
	if len(calls) == 0 {
		return nil
	}
	return calls[len(calls)-1]
}

type recordingCollection struct {
	diagnostics.Collection
	factory *recordingFactory
}

func (c *recordingCollection) Set(entries []diagnostics.Entry) {
	c.factory.mu.Lock()
	c.factory.sets[c.Name()] = append(c.factory.sets[c.Name()], append([]diagnostics.Entry(nil), entries...))
	c.factory.mu.Unlock()
	c.factory.log.add("set " + c.Name())
	c.Collection.Set(entries)
}

func (c *recordingCollection) Clear() {
	c.factory.log.add("clear " + c.Name())
	c.Collection.Clear()
}

func contents(c diagnostics.Collection) map[string][]diagnostics.Diagnostic {
	out := make(map[string][]diagnostics.Diagnostic)
	c.ForEach(func(uri string, diags []diagnostics.Diagnostic) {
		out[uri] = diags
	})
	return out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newWorkspace(t *testing.T, folders ...string) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.New(folders, "", logr.Discard())
	require.NoError(t, err)
	return ws
}
