package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/wgsldoc/pkg/types"
)

// Cache provides in-memory LRU caching of parse results by content hash
type Cache struct {
	cache *lru.Cache[string, *types.ParseResult]

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache creates a new parse cache with LRU eviction
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = 512 // Default: cache 512 modules
	}
	cache, err := lru.New[string, *types.ParseResult](maxLen)
	if err != nil {
		// Should never happen with positive size, but fallback to default
		cache, _ = lru.New[string, *types.ParseResult](512)
	}
	return &Cache{
		cache: cache,
	}
}

// Key hashes a module name and source into a cache key
func Key(moduleName, source string) string {
	h := sha256.New()
	h.Write([]byte(moduleName))
	h.Write([]byte{0})
	h.Write([]byte(source))
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a deep copy of a parse result.
// Registration mutates modules in place, so the cached value is never handed out.
func (c *Cache) Get(moduleName, source string) (*types.ParseResult, bool) {
	res, ok := c.cache.Get(Key(moduleName, source))
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return cloneResult(res), true
}

// Add stores a copy of a parse result with automatic LRU eviction
func (c *Cache) Add(moduleName, source string, res *types.ParseResult) {
	c.cache.Add(Key(moduleName, source), cloneResult(res))
}

// Size returns the current cache size
func (c *Cache) Size() int {
	return c.cache.Len()
}

// Hits returns the number of cache hits since creation
func (c *Cache) Hits() int64 {
	return c.hits.Load()
}

// Misses returns the number of cache misses since creation
func (c *Cache) Misses() int64 {
	return c.misses.Load()
}

// Purge removes all cached results
func (c *Cache) Purge() {
	c.cache.Purge()
}

func cloneResult(res *types.ParseResult) *types.ParseResult {
	return &types.ParseResult{
		Module:      res.Module.Clone(),
		Diagnostics: append(types.Diagnostics(nil), res.Diagnostics...),
	}
}
