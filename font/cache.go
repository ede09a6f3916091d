package font

import "sync"

// Cache holds resolved fonts keyed by resolved font name. It is safe for
// concurrent use; a race populating the same key is harmless because entries
// are idempotent, but the mutex keeps parsing work from being duplicated.
//
// Entries are never evicted automatically: fonts are assumed static within
// one run, so stale entries persist until Clear/Invalidate or process exit.
// Long-running services resolving many distinct font names should invalidate
// explicitly to bound memory growth.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Resolved
}

// NewCache creates an empty font cache.
func NewCache() *Cache {
	return &Cache{entries: map[string]*Resolved{}}
}

// Lookup returns the cached font for name, if any.
func (c *Cache) Lookup(name string) (*Resolved, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.entries[name]
	return f, ok
}

// Store records a resolved font under its name.
func (c *Cache) Store(f *Resolved) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[f.Name] = f
}

// Invalidate drops one entry.
func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]*Resolved{}
}

// Len reports the number of cached fonts.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
