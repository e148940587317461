package server

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache keeps recent lookup results for one map generation.
// A nil *Cache is valid and caches nothing.
type Cache struct {
	entries *lru.Cache[string, string]

	mu         sync.Mutex
	generation uint64

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// CacheStats are counters since the cache was created.
type CacheStats struct {
	Size      int
	Hits      uint64
	Misses    uint64
	Evictions uint64 // purges count too
}

// NewCache returns a cache holding up to size words, or nil when size <= 0.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		return nil, nil
	}
	c := &Cache{}
	entries, err := lru.NewWithEvict(size, func(string, string) {
		c.evictions.Add(1)
	})
	if err != nil {
		return nil, err
	}
	c.entries = entries
	return c, nil
}

// Sync drops every entry if gen differs from the generation the entries
// were computed for.
func (c *Cache) Sync(gen uint64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		c.entries.Purge()
		c.generation = gen
	}
}

// Get returns the cached output for word.
func (c *Cache) Get(word string) (string, bool) {
	if c == nil {
		return "", false
	}
	out, ok := c.entries.Get(word)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return out, ok
}

// Add caches a successful lookup.
func (c *Cache) Add(word, output string) {
	if c == nil {
		return
	}
	c.entries.Add(word, output)
}

// Stats returns the current counters.
func (c *Cache) Stats() CacheStats {
	if c == nil {
		return CacheStats{}
	}
	return CacheStats{
		Size:      c.entries.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
