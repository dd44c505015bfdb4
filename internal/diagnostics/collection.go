package diagnostics

import (
	"sort"
	"sync"

	"github.com/mtatools/mtatools/internal/workspace"
)

// Entry stages diagnostics for one URI. A nil Diagnostics slice removes
// everything previously set for the URI.
type Entry struct {
	URI         string
	Diagnostics []Diagnostic
}

// Collection is a named set of diagnostics keyed by URI.
type Collection interface {
	Name() string
	// Set applies all entries as one change. Entries for the same URI are
	// combined in order: a nil entry resets the URI, later entries append.
	Set(entries []Entry)
	ForEach(fn func(uri string, diags []Diagnostic))
	Clear()
	Dispose()
}

// Factory creates collections.
type Factory interface {
	CreateCollection(name string) Collection
}

// ChangeEvent lists the URIs touched by one collection update.
type ChangeEvent struct {
	Collection string
	URIs       []string
}

// Store is the in-process host for diagnostics collections. Every Set or
// Clear produces exactly one ChangeEvent.
type Store struct {
	mu          sync.Mutex
	collections map[*storeCollection]struct{}
	listeners   map[int]func(ChangeEvent)
	nextID      int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		collections: make(map[*storeCollection]struct{}),
		listeners:   make(map[int]func(ChangeEvent)),
	}
}

// CreateCollection creates a new collection. Names need not be unique.
func (s *Store) CreateCollection(name string) Collection {
	c := &storeCollection{
		store: s,
		name:  name,
		diags: make(map[string][]Diagnostic),
	}
	s.mu.Lock()
	s.collections[c] = struct{}{}
	s.mu.Unlock()
	return c
}

// OnDidChange registers fn for change events. Listeners run synchronously
// on the goroutine that changed the collection.
func (s *Store) OnDidChange(fn func(ChangeEvent)) workspace.Disposable {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return workspace.DisposeFunc(func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	})
}

// Snapshot merges all live collections by URI.
func (s *Store) Snapshot() map[string][]Diagnostic {
	s.mu.Lock()
	cols := make([]*storeCollection, 0, len(s.collections))
	for c := range s.collections {
		cols = append(cols, c)
	}
	s.mu.Unlock()

	out := make(map[string][]Diagnostic)
	for _, c := range cols {
		c.ForEach(func(uri string, diags []Diagnostic) {
			out[uri] = append(out[uri], diags...)
		})
	}
	return out
}

func (s *Store) notify(name string, uris []string) {
	if len(uris) == 0 {
		return
	}
	sort.Strings(uris)

	s.mu.Lock()
	fns := make([]func(ChangeEvent), 0, len(s.listeners))
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}
	s.mu.Unlock()

	event := ChangeEvent{Collection: name, URIs: uris}
	for _, fn := range fns {
		fn(event)
	}
}

func (s *Store) remove(c *storeCollection) {
	s.mu.Lock()
	delete(s.collections, c)
	s.mu.Unlock()
}

type storeCollection struct {
	store    *Store
	name     string
	mu       sync.RWMutex
	diags    map[string][]Diagnostic
	disposed bool
}

func (c *storeCollection) Name() string { return c.name }

func (c *storeCollection) Set(entries []Entry) {
	if len(entries) == 0 {
		return
	}

	staged := make(map[string][]Diagnostic, len(entries))
	var order []string
	for _, e := range entries {
		if _, ok := staged[e.URI]; !ok {
			order = append(order, e.URI)
		}
		if e.Diagnostics == nil {
			staged[e.URI] = []Diagnostic{}
			continue
		}
		staged[e.URI] = append(staged[e.URI], e.Diagnostics...)
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	for _, uri := range order {
		if len(staged[uri]) == 0 {
			delete(c.diags, uri)
			continue
		}
		c.diags[uri] = staged[uri]
	}
	c.mu.Unlock()

	c.store.notify(c.name, order)
}

func (c *storeCollection) ForEach(fn func(uri string, diags []Diagnostic)) {
	c.mu.RLock()
	uris := make([]string, 0, len(c.diags))
	for uri := range c.diags {
		uris = append(uris, uri)
	}
	snapshot := make(map[string][]Diagnostic, len(c.diags))
	for uri, d := range c.diags {
		snapshot[uri] = append([]Diagnostic(nil), d...)
	}
	c.mu.RUnlock()

	sort.Strings(uris)
	for _, uri := range uris {
		fn(uri, snapshot[uri])
	}
}

func (c *storeCollection) Clear() {
	c.mu.Lock()
	uris := make([]string, 0, len(c.diags))
	for uri := range c.diags {
		uris = append(uris, uri)
	}
	c.diags = make(map[string][]Diagnostic)
	c.mu.Unlock()

	c.store.notify(c.name, uris)
}

func (c *storeCollection) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.mu.Unlock()

	c.Clear()
	c.store.remove(c)
}
