// Package cache provides an in-memory TTL cache for exchange rates and a
// caching decorator for the rate repository.
package cache

import (
	"sync"
	"time"

	"github.com/quotation-labs/quotation-system/internal/domain/entity"
)

type cacheEntry struct {
	rate     *entity.ExchangeRate
	cachedAt time.Time
}

// RateCache is a thread-safe in-memory cache keyed by ordered currency pair
type RateCache struct {
	mu         sync.RWMutex
	entries    map[string]cacheEntry
	expiration time.Duration
}

// NewRateCache creates a rate cache with the given entry lifetime
func NewRateCache(expiration time.Duration) *RateCache {
	return &RateCache{
		entries:    make(map[string]cacheEntry),
		expiration: expiration,
	}
}

func pairKey(base, quote string) string {
	return base + ":" + quote
}

// Get returns the cached rate for (base, quote), or nil if absent or expired
func (c *RateCache) Get(base, quote string) *entity.ExchangeRate {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[pairKey(base, quote)]
	if !ok || time.Since(entry.cachedAt) > c.expiration {
		return nil
	}
	return entry.rate
}

// Put stores a rate in the cache
func (c *RateCache) Put(rate *entity.ExchangeRate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[pairKey(rate.Base, rate.Quote)] = cacheEntry{
		rate:     rate,
		cachedAt: time.Now(),
	}
}

// Invalidate drops the cached rate for (base, quote), if any
func (c *RateCache) Invalidate(base, quote string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, pairKey(base, quote))
}

// Clear drops every cached rate
func (c *RateCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
}

// Size returns the number of cached rates, expired entries included
func (c *RateCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
