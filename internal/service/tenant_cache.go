package service

import (
	"sync"
	"time"
)

// TenantCache memoizes organization and user lookups during tenant resolution.
// It is a performance aid only; NoopTenantCache must always be a valid choice.
type TenantCache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
}

// NoopTenantCache never stores anything.
type NoopTenantCache struct{}

// Get always misses.
func (NoopTenantCache) Get(string) (interface{}, bool) { return nil, false }

// Set discards the value.
func (NoopTenantCache) Set(string, interface{}) {}

type tenantCacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// MemoryTenantCache is a process-local TTL map.
type MemoryTenantCache struct {
	mu      sync.RWMutex
	entries map[string]tenantCacheEntry
	ttl     time.Duration
	now     func() time.Time
}

const tenantCacheSweepSize = 1024

// NewMemoryTenantCache builds a TTL cache. A non-positive ttl disables it.
func NewMemoryTenantCache(ttl time.Duration) TenantCache {
	if ttl <= 0 {
		return NoopTenantCache{}
	}
	return &MemoryTenantCache{entries: make(map[string]tenantCacheEntry), ttl: ttl, now: time.Now}
}

// Get returns a live entry; expired entries are dropped.
func (c *MemoryTenantCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		if current, still := c.entries[key]; still && current.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

// Set stores value for the configured TTL.
func (c *MemoryTenantCache) Set(key string, value interface{}) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= tenantCacheSweepSize {
		for k, e := range c.entries {
			if !now.Before(e.expiresAt) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[key] = tenantCacheEntry{value: value, expiresAt: now.Add(c.ttl)}
}

// Len reports the number of stored entries, expired or not.
func (c *MemoryTenantCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
