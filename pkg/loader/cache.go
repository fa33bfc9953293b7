package loader

import "sync"

// Cache keys documents by request identity for the whole session. Entries
// are never evicted, expired or invalidated.
//
// The dashboard's UI loop is the only writer of selection state, but fetch
// chains run in command goroutines, so access is guarded.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]any
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]any)}
}

// Get returns the document stored under key.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.entries[key]
	return doc, ok
}

// Put stores doc under key, replacing any previous entry.
func (c *Cache) Put(key string, doc any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = doc
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RegionKey is the cache key for a regional document.
func RegionKey(region string) string { return "region_" + region }

// CuisineKey is the cache key for a cuisine document.
func CuisineKey(cuisine string) string { return "cuisine_" + cuisine }

// CompetitiveKey is the cache key for a region x cuisine document.
func CompetitiveKey(region, cuisine string) string {
	return "competitive_" + region + "_" + cuisine
}
