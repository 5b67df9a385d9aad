package analytics

import (
	"sync"
	"time"

	"app/models"
)

// Cache holds at most one live AnalysisResult per session key. Writes are
// whole-value replacements; a new run replaces, never merges.
type Cache interface {
	Get(key string) (*models.AnalysisResult, bool)
	Put(key string, result *models.AnalysisResult)
	Evict(key string)
}

type cacheEntry struct {
	result    *models.AnalysisResult
	expiresAt time.Time
}

// MemoryCache is a TTL-bounded in-process Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(key string) (*models.AnalysisResult, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().After(entry.expiresAt) {
		c.Evict(key)
		return nil, false
	}
	return entry.result, true
}

func (c *MemoryCache) Put(key string, result *models.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{
		result:    result,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *MemoryCache) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
