package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTenantCacheExpiry(t *testing.T) {
	cache, ok := NewMemoryTenantCache(30 * time.Second).(*MemoryTenantCache)
	require.True(t, ok)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.Set("o:acme", "org-1")
	value, hit := cache.Get("o:acme")
	assert.True(t, hit)
	assert.Equal(t, "org-1", value)

	now = now.Add(30 * time.Second)
	_, hit = cache.Get("o:acme")
	assert.False(t, hit)
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryTenantCacheSweepsExpiredOnGrowth(t *testing.T) {
	cache := NewMemoryTenantCache(time.Second).(*MemoryTenantCache)
	now := time.Now()
	cache.now = func() time.Time { return now }
	for i := 0; i < tenantCacheSweepSize; i++ {
		cache.Set(fmt.Sprintf("k%d", i), i)
	}
	now = now.Add(2 * time.Second)
	cache.Set("fresh", true)
	assert.Equal(t, 1, cache.Len())
}

func TestNewMemoryTenantCacheDisabled(t *testing.T) {
	cache := NewMemoryTenantCache(0)
	cache.Set("k", 1)
	_, hit := cache.Get("k")
	assert.False(t, hit)
	assert.IsType(t, NoopTenantCache{}, cache)
}
