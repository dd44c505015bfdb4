package workspace

import "sync"

// Disposable is a resource or subscription that must be released on shutdown.
type Disposable interface {
	Dispose()
}

// DisposeFunc adapts a function to Disposable.
type DisposeFunc func()

// Dispose calls f.
func (f DisposeFunc) Dispose() { f() }

// Disposables is a subscription list owned by the caller. Dispose releases
// every entry in reverse registration order, exactly once.
type Disposables struct {
	mu       sync.Mutex
	items    []Disposable
	disposed bool
}

// Add registers d. Adding to an already disposed list releases d immediately.
func (d *Disposables) Add(item Disposable) {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		item.Dispose()
		return
	}
	d.items = append(d.items, item)
	d.mu.Unlock()
}

// Len returns the number of registered entries.
func (d *Disposables) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// Dispose releases all entries.
func (d *Disposables) Dispose() {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		return
	}
	d.disposed = true
	items := d.items
	d.items = nil
	d.mu.Unlock()

	for i := len(items) - 1; i >= 0; i-- {
		items[i].Dispose()
	}
}
