package diagnostics

import (
	"sync"

	"github.com/mtatools/mtatools/internal/workspace"
)

// Cache hands out one collection per name for the lifetime of the process.
// Created collections are registered on the disposal list.
type Cache struct {
	mu          sync.Mutex
	factory     Factory
	disposables *workspace.Disposables
	collections map[string]Collection
}

// NewCache creates a cache over factory. disposables may be nil.
func NewCache(factory Factory, disposables *workspace.Disposables) *Cache {
	return &Cache{
		factory:     factory,
		disposables: disposables,
		collections: make(map[string]Collection),
	}
}

// GetOrCreate returns the collection for name, creating it on first use.
func (c *Cache) GetOrCreate(name string) Collection {
	c.mu.Lock()
	defer c.mu.Unlock()

	if col, ok := c.collections[name]; ok {
		return col
	}
	col := c.factory.CreateCollection(name)
	if c.disposables != nil {
		c.disposables.Add(col)
	}
	c.collections[name] = col
	return col
}

// ClearAll clears every cached collection. Handles stay cached.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	cols := make([]Collection, 0, len(c.collections))
	for _, col := range c.collections {
		cols = append(cols, col)
	}
	c.mu.Unlock()

	for _, col := range cols {
		col.Clear()
	}
}

// Reset forgets all cached collections without clearing or disposing them.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.collections = make(map[string]Collection)
	c.mu.Unlock()
}

// Len returns the number of cached collections.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.collections)
}
