package compiler

import "sync"

// Cache holds the last successful compile output per key, one independent
// mapping per variant. Put is unconditional last-writer-wins: responses carry
// no ordering token, so the cache cannot tell a stale result from a fresh
// one. Entries are never evicted; growth is bounded by file-set size times
// two variants.
type Cache struct {
	mu        sync.RWMutex
	byVariant map[Variant]map[string]string
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		byVariant: map[Variant]map[string]string{
			VariantExecution: make(map[string]string),
			VariantPreview:   make(map[string]string),
		},
	}
}

// Put stores code under key, overwriting any previous entry.
func (c *Cache) Put(key Key, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.byVariant[key.Variant]
	if !ok {
		return
	}
	m[key.Filename] = code
}

// Get returns the cached code for key, if present.
func (c *Cache) Get(key Key) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.byVariant[key.Variant]
	if !ok {
		return "", false
	}
	code, ok := m[key.Filename]
	return code, ok
}

// HasAll reports whether every filename has an entry for the given variant.
func (c *Cache) HasAll(filenames []string, variant Variant) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.byVariant[variant]
	if !ok {
		return false
	}
	for _, name := range filenames {
		if _, ok := m[name]; !ok {
			return false
		}
	}
	return true
}

// Snapshot returns a map holding exactly the given filenames for the given
// variant. The second return is false if any filename is missing. Keys cached
// for files outside the requested set never leak into the result.
func (c *Cache) Snapshot(filenames []string, variant Variant) (map[string]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.byVariant[variant]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(filenames))
	for _, name := range filenames {
		code, ok := m[name]
		if !ok {
			return nil, false
		}
		out[name] = code
	}
	return out, true
}
