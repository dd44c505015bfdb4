// Package workspace models the set of folders mtatools operates on and
// searches them for MTA descriptors and archives.
package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-logr/logr"

	"github.com/mtatools/mtatools/internal/messages"
)

const (
	// MtaYaml is the MTA project descriptor file name.
	MtaYaml = "mta.yaml"
	// DevMtaExt is the development extension descriptor file name.
	DevMtaExt = "dev.mtaext"

	// MtaYamlPattern finds project descriptors.
	MtaYamlPattern = "**/" + MtaYaml
	// MtarPattern finds built archives.
	MtarPattern = "**/*.mtar"
	// DefaultExclude is never searched.
	DefaultExclude = "**/node_modules/**"
)

// Folder is one root of the workspace.
type Folder struct {
	Name string
	Path string
}

// FoldersChangeEvent describes a change of the workspace folder list.
type FoldersChangeEvent struct {
	Added   []Folder
	Removed []Folder
}

// Workspace is an ordered list of folders plus the exclude pattern applied to searches.
type Workspace struct {
	mu        sync.RWMutex
	folders   []Folder
	exclude   string
	log       logr.Logger
	listeners map[int]func(FoldersChangeEvent)
	nextID    int
}

// New creates a workspace over the given folder paths. Relative paths are made absolute.
func New(paths []string, exclude string, log logr.Logger) (*Workspace, error) {
	if exclude == "" {
		exclude = DefaultExclude
	}
	if !doublestar.ValidatePattern(exclude) {
		return nil, fmt.Errorf("invalid exclude pattern %q", exclude)
	}

	w := &Workspace{
		exclude:   exclude,
		log:       log,
		listeners: make(map[int]func(FoldersChangeEvent)),
	}
	for _, p := range paths {
		folder, err := newFolder(p)
		if err != nil {
			return nil, err
		}
		w.folders = append(w.folders, folder)
	}
	return w, nil
}

func newFolder(p string) (Folder, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return Folder{}, fmt.Errorf("resolving workspace folder %s: %w", p, err)
	}
	return Folder{Name: filepath.Base(abs), Path: abs}, nil
}

// Folders returns a copy of the folder list.
func (w *Workspace) Folders() []Folder {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]Folder(nil), w.folders...)
}

// Exclude returns the exclude pattern.
func (w *Workspace) Exclude() string {
	return w.exclude
}

// AddFolder appends a folder and notifies subscribers.
func (w *Workspace) AddFolder(p string) (Folder, error) {
	folder, err := newFolder(p)
	if err != nil {
		return Folder{}, err
	}

	w.mu.Lock()
	for _, f := range w.folders {
		if f.Path == folder.Path {
			w.mu.Unlock()
			return f, nil
		}
	}
	w.folders = append(w.folders, folder)
	w.mu.Unlock()

	w.publish(FoldersChangeEvent{Added: []Folder{folder}})
	return folder, nil
}

// RemoveFolder removes the folder with the given path and notifies subscribers.
// Returns false when no such folder exists.
func (w *Workspace) RemoveFolder(p string) bool {
	abs, err := filepath.Abs(p)
	if err != nil {
		return false
	}

	w.mu.Lock()
	var removed []Folder
	kept := w.folders[:0:0]
	for _, f := range w.folders {
		if f.Path == abs {
			removed = append(removed, f)
			continue
		}
		kept = append(kept, f)
	}
	w.folders = kept
	w.mu.Unlock()

	if len(removed) == 0 {
		return false
	}
	w.publish(FoldersChangeEvent{Removed: removed})
	return true
}

// OnDidChangeFolders subscribes fn to folder list changes.
func (w *Workspace) OnDidChangeFolders(fn func(FoldersChangeEvent)) Disposable {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.listeners[id] = fn
	w.mu.Unlock()

	return DisposeFunc(func() {
		w.mu.Lock()
		delete(w.listeners, id)
		w.mu.Unlock()
	})
}

func (w *Workspace) publish(e FoldersChangeEvent) {
	w.mu.RLock()
	fns := make([]func(FoldersChangeEvent), 0, len(w.listeners))
	for _, fn := range w.listeners {
		fns = append(fns, fn)
	}
	w.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}

// FolderFor returns the workspace folder containing path and the path of the
// file relative to the folder's parent, e.g. "proj/mta.yaml".
func (w *Workspace) FolderFor(path string) (Folder, string, bool) {
	for _, f := range w.Folders() {
		if path == f.Path || strings.HasPrefix(path, f.Path+string(filepath.Separator)) {
			rel, err := filepath.Rel(filepath.Dir(f.Path), path)
			if err != nil {
				continue
			}
			return f, filepath.ToSlash(rel), true
		}
	}
	w.log.Error(nil, messages.NoWorkspaceFolder(path))
	return Folder{}, "", false
}

// IsExcluded reports whether the folder-relative slash path matches the exclude pattern.
func (w *Workspace) IsExcluded(rel string) bool {
	return matchExclude(w.exclude, rel)
}

// Discover searches the workspace for pattern using the workspace exclude pattern.
// fileType only labels the log entry.
func (w *Workspace) Discover(ctx context.Context, fileType, pattern string) ([]string, error) {
	paths, err := w.FindFiles(ctx, pattern, w.exclude)
	if err != nil {
		return nil, err
	}
	w.log.V(1).Info("files found", "type", fileType, "count", len(paths))
	return paths, nil
}

// FindFiles walks every folder and returns the normalized absolute paths of
// files whose folder-relative path matches pattern. Directories matching
// exclude are skipped. No match is an empty result, not an error.
func (w *Workspace) FindFiles(ctx context.Context, pattern, exclude string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid search pattern %q", pattern)
	}

	var found []string
	for _, folder := range w.Folders() {
		err := filepath.WalkDir(folder.Path, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) || os.IsPermission(err) {
					return nil
				}
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			rel, relErr := filepath.Rel(folder.Path, path)
			if relErr != nil || rel == "." {
				return nil
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if exclude != "" && matchExclude(exclude, rel) {
					return filepath.SkipDir
				}
				return nil
			}

			if match, _ := doublestar.Match(pattern, rel); match {
				found = append(found, NormalizePath(path))
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("searching %s: %w", folder.Path, err)
		}
	}
	return found, nil
}

// matchExclude matches a directory path against patterns such as "**/node_modules/**",
// which only match entries below the directory.
func matchExclude(exclude, rel string) bool {
	if match, _ := doublestar.Match(exclude, rel); match {
		return true
	}
	match, _ := doublestar.Match(exclude, rel+"/x")
	return match
}
