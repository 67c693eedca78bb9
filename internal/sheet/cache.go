package sheet

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a fetched grid is served from memory
const DefaultCacheTTL = 120 * time.Second

// Entry is a cached grid and the time it was fetched
type Entry struct {
	Grid      Grid
	FetchedAt time.Time
}

// Cache stores grids under a key until their TTL runs out
type Cache interface {
	Get(key string) (Entry, bool)
	Put(key string, entry Entry, ttl time.Duration)
}

type cacheSlot struct {
	entry   Entry
	expires time.Time
}

// MemoryCache is a process-local Cache holding one slot per key
type MemoryCache struct {
	mu    sync.RWMutex
	slots map[string]cacheSlot
	now   func() time.Time
}

// NewMemoryCache creates an empty cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		slots: make(map[string]cacheSlot),
		now:   time.Now,
	}
}

// Get returns the entry for key if it has not expired
func (c *MemoryCache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	slot, ok := c.slots[key]
	if !ok || !c.now().Before(slot.expires) {
		return Entry{}, false
	}
	return slot.entry, true
}

// Put replaces the slot for key. A non-positive ttl stores nothing.
func (c *MemoryCache) Put(key string, entry Entry, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[key] = cacheSlot{entry: entry, expires: c.now().Add(ttl)}
}

// Invalidate drops the slot for key
func (c *MemoryCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.slots, key)
	c.mu.Unlock()
}

// CachedSource serves grids from a Cache and falls back to its Source on a miss.
// Concurrent misses may fetch more than once; fetches have no side effects.
type CachedSource struct {
	Source Source
	Cache  Cache
	Key    string
	TTL    time.Duration
	now    func() time.Time
}

// NewCachedSource wraps src with cache using a single slot named key
func NewCachedSource(src Source, cache Cache, key string, ttl time.Duration) *CachedSource {
	return &CachedSource{Source: src, Cache: cache, Key: key, TTL: ttl, now: time.Now}
}

// FetchRows returns the cached grid or fetches a fresh one synchronously
func (s *CachedSource) FetchRows(ctx context.Context) (Grid, error) {
	if entry, ok := s.Cache.Get(s.Key); ok {
		return entry.Grid, nil
	}

	grid, err := s.Source.FetchRows(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	s.Cache.Put(s.Key, Entry{Grid: grid, FetchedAt: now()}, s.TTL)
	return grid, nil
}
