package pattern

import (
	"log/slog"
	"sync"

	"github.com/dlclark/regexp2"
)

type cacheKey struct {
	expr string
	opts Options
}

// Cache memoizes compiled patterns keyed by source and options.
// A compiled regexp2.Regexp is safe for concurrent use, so entries are shared.
type Cache struct {
	mu      sync.RWMutex // protects entries
	entries map[cacheKey]*regexp2.Regexp
}

// NewCache creates an empty compile cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]*regexp2.Regexp)}
}

// Compile returns the cached regex for expr/opts, compiling it on first use.
// Compile errors are not cached.
func (c *Cache) Compile(expr string, opts Options) (*regexp2.Regexp, error) {
	key := cacheKey{expr: expr, opts: opts}

	c.mu.RLock()
	re, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := Compile(expr, opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		return existing, nil
	}
	c.entries[key] = re
	slog.Debug("Pattern compiled", "pattern", expr, "cached", len(c.entries))
	return re, nil
}

// Len returns the number of cached patterns.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
