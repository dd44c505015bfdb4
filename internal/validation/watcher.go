package validation

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"

	"github.com/mtatools/mtatools/internal/mta"
	"github.com/mtatools/mtatools/internal/workspace"
)

// Watcher revalidates projects when their mta.yaml or dev.mtaext changes and
// revalidates the whole workspace when folders are added or removed.
type Watcher struct {
	pipeline *Pipeline
	ws       *workspace.Workspace
	debounce time.Duration
	log      logr.Logger

	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	ctx      context.Context
	cancel   context.CancelFunc
	watched  map[string]bool
	projects map[string]bool
	timers   map[string]*time.Timer
	done     chan struct{}
}

// NewWatcher creates a watcher. A zero debounce updates a project on every event.
func NewWatcher(pipeline *Pipeline, ws *workspace.Workspace, debounce time.Duration, log logr.Logger) *Watcher {
	return &Watcher{
		pipeline: pipeline,
		ws:       ws,
		debounce: debounce,
		log:      log,
		watched:  make(map[string]bool),
		projects: make(map[string]bool),
		timers:   make(map[string]*time.Timer),
	}
}

// Register starts watching, subscribes to workspace folder changes and runs
// an initial full validation. The watcher and the subscription are added to
// disposables.
func (w *Watcher) Register(ctx context.Context, disposables *workspace.Disposables) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	disposables.Add(workspace.DisposeFunc(func() { _ = w.Close() }))
	disposables.Add(w.ws.OnDidChangeFolders(w.onFoldersChanged))

	return w.pipeline.Revalidate(ctx, false)
}

// Start begins watching all workspace folders.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	w.mu.Lock()
	w.fsw = fsw
	w.ctx, w.cancel = loopCtx, cancel
	w.done = done
	w.mu.Unlock()

	for _, folder := range w.ws.Folders() {
		w.addTree(folder, folder.Path)
	}

	go w.loop(loopCtx, fsw, done)
	return nil
}

// Close stops the event loop and pending debounced updates.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.fsw == nil {
		w.mu.Unlock()
		return nil
	}
	fsw, done := w.fsw, w.done
	w.fsw = nil
	w.cancel()
	for dir, t := range w.timers {
		t.Stop()
		delete(w.timers, dir)
	}
	w.mu.Unlock()

	err := fsw.Close()
	<-done
	return err
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.Error(err, "file watcher error")
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	path := workspace.NormalizePath(event.Name)
	base := filepath.Base(path)

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if folder, ok := w.folderOf(path); ok {
				w.addTree(folder, path)
			}
			return
		}
	}

	if base == mta.DescriptorFile || base == mta.DevExtensionFile {
		dir := filepath.Dir(path)
		if base == mta.DescriptorFile {
			w.trackProject(dir, !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename))
		}
		w.schedule(dir)
		return
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		_, projects := w.forgetTree(path)
		for _, dir := range projects {
			w.schedule(dir)
		}
	}
}

// addTree watches root and every non-excluded directory below it and
// schedules validation for projects found there.
func (w *Watcher) addTree(folder workspace.Folder, root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(folder.Path, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if !d.IsDir() {
			if d.Name() == mta.DescriptorFile {
				dir := filepath.Dir(path)
				if w.trackProject(dir, true) && root != folder.Path {
					w.schedule(dir)
				}
			}
			return nil
		}
		if rel != "." && w.ws.IsExcluded(rel) {
			return filepath.SkipDir
		}
		w.watch(path)
		return nil
	})
}

func (w *Watcher) watch(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil || w.watched[dir] {
		return
	}
	if err := w.fsw.Add(dir); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			w.log.Error(err, "cannot watch directory", "dir", dir)
		}
		return
	}
	w.watched[dir] = true
}

// forgetTree drops watch bookkeeping for a removed path and returns the
// watched directories and the projects that lived under it.
func (w *Watcher) forgetTree(path string) (dirs, projects []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prefix := path + string(filepath.Separator)
	for dir := range w.watched {
		if dir == path || strings.HasPrefix(dir, prefix) {
			delete(w.watched, dir)
			dirs = append(dirs, dir)
		}
	}

	for dir := range w.projects {
		if dir == path || strings.HasPrefix(dir, prefix) {
			delete(w.projects, dir)
			projects = append(projects, dir)
		}
	}
	return dirs, projects
}

// trackProject records whether dir holds an mta.yaml and reports whether
// the set changed.
func (w *Watcher) trackProject(dir string, present bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.projects[dir] == present {
		return false
	}
	if present {
		w.projects[dir] = true
	} else {
		delete(w.projects, dir)
	}
	return true
}

func (w *Watcher) folderOf(path string) (workspace.Folder, bool) {
	for _, f := range w.ws.Folders() {
		if path == f.Path || strings.HasPrefix(path, f.Path+string(filepath.Separator)) {
			return f, true
		}
	}
	return workspace.Folder{}, false
}

// schedule updates the project in dir now, or after the debounce delay with
// repeated events for the same project coalesced.
func (w *Watcher) schedule(dir string) {
	if w.debounce <= 0 {
		w.update(dir)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return
	}
	if t, ok := w.timers[dir]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[dir] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, dir)
		w.mu.Unlock()
		w.update(dir)
	})
}

func (w *Watcher) update(dir string) {
	w.mu.Lock()
	ctx := w.ctx
	w.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}

	if err := w.pipeline.UpdateForProject(ctx, filepath.Join(dir, mta.DescriptorFile)); err != nil {
		w.log.Error(err, "updating project diagnostics failed", "project", dir)
	}
}

func (w *Watcher) onFoldersChanged(e workspace.FoldersChangeEvent) {
	for _, f := range e.Added {
		w.addTree(f, f.Path)
	}
	for _, f := range e.Removed {
		dirs, _ := w.forgetTree(f.Path)
		w.mu.Lock()
		if w.fsw != nil {
			for _, dir := range dirs {
				_ = w.fsw.Remove(dir)
			}
		}
		w.mu.Unlock()
	}

	w.mu.Lock()
	ctx := w.ctx
	w.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := w.pipeline.Revalidate(ctx, len(e.Removed) > 0); err != nil {
		w.log.Error(err, "workspace revalidation failed")
	}
}
