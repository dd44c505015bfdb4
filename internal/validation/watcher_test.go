package validation

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtatools/mtatools/internal/diagnostics"
	"github.com/mtatools/mtatools/internal/mta"
	"github.com/mtatools/mtatools/internal/workspace"
)

func calledFor(fake *fakeValidator, dir string) int {
	n := 0
	for _, c := range fake.Calls() {
		if c.projectDir == dir {
			n++
		}
	}
	return n
}

func newWatcher(t *testing.T, fake *fakeValidator, debounce time.Duration, folders ...string) (*Watcher, *diagnostics.Cache, *workspace.Workspace) {
	t.Helper()
	cache := diagnostics.NewCache(diagnostics.NewStore(), nil)
	ws := newWorkspace(t, folders...)
	p := NewPipeline(cache, NewAdapter(fake), ws, 2, logr.Discard())
	return NewWatcher(p, ws, debounce, logr.Discard()), cache, ws
}

func TestWatcher_Register_InitialValidation(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	proj := filepath.Join(root, "proj")
	writeFile(t, filepath.Join(proj, mta.DescriptorFile), "ID: x\n")

	fake := &fakeValidator{}
	w, _, _ := newWatcher(t, fake, 0, root)

	var disposables workspace.Disposables
	require.NoError(t, w.Register(context.Background(), &disposables))
	defer disposables.Dispose()

	assert.Equal(t, 1, calledFor(fake, proj))
	assert.Equal(t, 2, disposables.Len())
}

func TestWatcher_DescriptorChangeTriggersUpdate(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	proj := filepath.Join(root, "proj")
	writeFile(t, filepath.Join(proj, "README.md"), "readme\n")

	fake := &fakeValidator{}
	w, _, _ := newWatcher(t, fake, 0, root)

	var disposables workspace.Disposables
	require.NoError(t, w.Register(context.Background(), &disposables))
	defer disposables.Dispose()
	require.Equal(t, 0, calledFor(fake, proj))

	writeFile(t, filepath.Join(proj, mta.DescriptorFile), "ID: x\n")
	assert.Eventually(t, func() bool { return calledFor(fake, proj) > 0 }, 5*time.Second, 20*time.Millisecond)

	before := calledFor(fake, proj)
	writeFile(t, filepath.Join(proj, mta.DevExtensionFile), "ID: x.dev\n")
	assert.Eventually(t, func() bool { return calledFor(fake, proj) > before }, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fake := &fakeValidator{}
	w, _, _ := newWatcher(t, fake, 0, root)

	var disposables workspace.Disposables
	require.NoError(t, w.Register(context.Background(), &disposables))
	defer disposables.Dispose()

	writeFile(t, filepath.Join(root, "package.json"), "{}\n")
	assert.Never(t, func() bool { return len(fake.Calls()) > 0 }, 300*time.Millisecond, 20*time.Millisecond)
}

func TestWatcher_FolderRemovedClearsAll(t *testing.T) {
	t.Parallel()

	keep := t.TempDir()
	drop := t.TempDir()
	keepProj := filepath.Join(keep, "p")
	writeFile(t, filepath.Join(keepProj, mta.DescriptorFile), "ID: x\n")

	fake := &fakeValidator{}
	w, cache, ws := newWatcher(t, fake, 0, keep, drop)

	var disposables workspace.Disposables
	require.NoError(t, w.Register(context.Background(), &disposables))
	defer disposables.Dispose()

	stale := cache.GetOrCreate("Diagnostics for project: " + filepath.Join(drop, "old"))
	stale.Set([]diagnostics.Entry{{URI: filepath.Join(drop, "old", mta.DescriptorFile), Diagnostics: []diagnostics.Diagnostic{{Message: "x"}}}})
	initial := calledFor(fake, keepProj)

	require.True(t, ws.RemoveFolder(drop))

	assert.Empty(t, contents(stale))
	assert.Equal(t, initial+1, calledFor(fake, keepProj))
}

func TestWatcher_FolderRemovedClearsBeforeRevalidating(t *testing.T) {
	t.Parallel()

	keep := t.TempDir()
	drop := t.TempDir()
	keepProj := filepath.Join(keep, "p")
	writeFile(t, filepath.Join(keepProj, mta.DescriptorFile), "ID: x\n")

	events := &eventLog{}
	fake := &fakeValidator{log: events}
	cache := diagnostics.NewCache(newRecordingFactory(events), nil)
	ws := newWorkspace(t, keep, drop)
	w := NewWatcher(NewPipeline(cache, NewAdapter(fake), ws, 2, logr.Discard()), ws, 0, logr.Discard())

	var disposables workspace.Disposables
	require.NoError(t, w.Register(context.Background(), &disposables))
	defer disposables.Dispose()

	staleName := "Diagnostics for project: " + filepath.Join(drop, "old")
	cache.GetOrCreate(staleName).Set([]diagnostics.Entry{{URI: filepath.Join(drop, "old", mta.DescriptorFile), Diagnostics: []diagnostics.Diagnostic{{Message: "x"}}}})
	mark := len(events.Events())

	require.True(t, ws.RemoveFolder(drop))

	after := events.Events()[mark:]
	clearAt, validateAt := -1, -1
	for i, e := range after {
		if e == "clear "+staleName && clearAt < 0 {
			clearAt = i
		}
		if e == "validate "+keepProj && validateAt < 0 {
			validateAt = i
		}
	}
	require.NotEqual(t, -1, clearAt, "events: %v", after)
	require.NotEqual(t, -1, validateAt, "events: %v", after)
	assert.Less(t, clearAt, validateAt)
}

func TestWatcher_FolderAddedRevalidatesWithoutClearing(t *testing.T) {
	t.Parallel()

	first := t.TempDir()
	added := t.TempDir()
	addedProj := filepath.Join(added, "p")
	writeFile(t, filepath.Join(addedProj, mta.DescriptorFile), "ID: x\n")

	fake := &fakeValidator{}
	w, cache, ws := newWatcher(t, fake, 0, first)

	var disposables workspace.Disposables
	require.NoError(t, w.Register(context.Background(), &disposables))
	defer disposables.Dispose()

	other := cache.GetOrCreate("other")
	other.Set([]diagnostics.Entry{{URI: "/x", Diagnostics: []diagnostics.Diagnostic{{Message: "x"}}}})

	_, err := ws.AddFolder(added)
	require.NoError(t, err)

	assert.Equal(t, 1, calledFor(fake, addedProj))
	assert.Len(t, contents(other), 1)
}

func TestWatcher_DebounceCoalesces(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	proj := filepath.Join(root, "p")
	writeFile(t, filepath.Join(proj, mta.DescriptorFile), "ID: x\n")

	fake := &fakeValidator{}
	w, _, _ := newWatcher(t, fake, 100*time.Millisecond, root)
	require.NoError(t, w.Start(context.Background()))
	defer func() { _ = w.Close() }()

	for i := 0; i < 5; i++ {
		w.schedule(proj)
	}

	assert.Eventually(t, func() bool { return calledFor(fake, proj) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Never(t, func() bool { return calledFor(fake, proj) > 1 }, 300*time.Millisecond, 20*time.Millisecond)
}

func TestWatcher_Close(t *testing.T) {
	t.Parallel()

	fake := &fakeValidator{}
	w, _, _ := newWatcher(t, fake, 0, t.TempDir())

	assert.NoError(t, w.Close())
	require.NoError(t, w.Start(context.Background()))
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	// Updates after close are dropped.
	w.update(t.TempDir())
	assert.Empty(t, fake.Calls())
}
