package gff

import (
	"sync"
)

// Cache lazily builds and shares parsed annotation tables keyed by
// path. Concurrent first-time requests for the same path collapse into
// a single parse; a parse failure is returned to the requester and not
// cached, so a later call can retry.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	parse   func(path string) (*Table, error)
}

type cacheEntry struct {
	mu    sync.Mutex
	table *Table
}

// NewCache creates an empty cache backed by ParseTable.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
		parse:   ParseTable,
	}
}

// GetOrBuild returns the parsed table for path, building it on first
// request. The entry lock serializes builds per key: a second caller
// arriving mid-build blocks until the winner stores the table, then
// observes the identical instance.
func (c *Cache) GetOrBuild(path string) (*Table, error) {
	c.mu.Lock()
	e, ok := c.entries[path]
	if !ok {
		e = &cacheEntry{}
		c.entries[path] = e
	}
	c.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.table != nil {
		return e.table, nil
	}
	t, err := c.parse(path)
	if err != nil {
		return nil, err
	}
	e.table = t
	return t, nil
}

// Len returns the number of successfully built tables.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		e.mu.Lock()
		if e.table != nil {
			n++
		}
		e.mu.Unlock()
	}
	return n
}
