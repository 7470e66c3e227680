package memory

import (
	"sync"
	"time"

	"starwars-gateway/internal/interfaces"
	"starwars-gateway/internal/models"
)

// Ensure MemoryCache implements interfaces.Cache
var _ interfaces.Cache = (*MemoryCache)(nil)

// MemoryCache is a concurrency-safe map with per-entry TTL.
//
// Expired entries are removed lazily on Get; there is no background sweep and no
// capacity bound.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]models.CacheEntry
	now  func() time.Time
}

// Option configures a MemoryCache
type Option func(*MemoryCache)

// WithClock overrides the time source used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(c *MemoryCache) {
		c.now = now
	}
}

// NewMemoryCache creates an empty cache
func NewMemoryCache(opts ...Option) *MemoryCache {
	c := &MemoryCache{
		data: make(map[string]models.CacheEntry),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key unless it is missing or expired
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, exists := c.data[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if entry.IsExpired(c.now()) {
		c.mu.Lock()
		// re-check: a concurrent Set may have refreshed the key
		if current, ok := c.data[key]; ok && current.IsExpired(c.now()) {
			delete(c.data, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.Data, true
}

// Set stores val under key, replacing any previous entry. A non-positive ttl is ignored.
func (c *MemoryCache) Set(key string, val []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	entry := models.NewCacheEntry(val, c.now(), ttl)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry
}

// Delete removes a key from the cache
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
