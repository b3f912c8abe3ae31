package cachemanager

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/flowgen/internal/log"
)

const DefaultExpiration = 10 * time.Minute
const DefaultCleanupInterval = 30 * time.Minute

// NoExpiration keeps an entry until it is deleted or flushed.
const NoExpiration = gocache.NoExpiration

// NewInMemoryCacheManager creates a go-cache backed manager. useCase names the
// cache in log lines.
func NewInMemoryCacheManager[V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[V] {
	return &InMemoryCacheManager[V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

// InMemoryCacheManager is the go-cache implementation of CacheManager.
type InMemoryCacheManager[V any] struct {
	useCase string
	cache   *gocache.Cache
}

// Get retrieves an item from the cache by its key.
func (c *InMemoryCacheManager[V]) Get(key string) (V, bool) {
	var zeroValue V

	value, found := c.cache.Get(key)
	if !found {
		return zeroValue, false
	}

	v, ok := value.(V)
	if !ok {
		log.Error(log.CatCache, "wrong type assertion when getting value", "cache", c.useCase, "key", key)
		return zeroValue, false
	}

	return v, true
}

// Set stores value under key. A zero ttl uses the default expiration.
func (c *InMemoryCacheManager[V]) Set(key string, value V, ttl time.Duration) {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, value, ttl)
}

// Delete removes the given keys.
func (c *InMemoryCacheManager[V]) Delete(keys ...string) {
	for _, key := range keys {
		c.cache.Delete(key)
	}
}

// Flush removes every entry.
func (c *InMemoryCacheManager[V]) Flush() {
	c.cache.Flush()
	log.Debug(log.CatCache, "cache flushed", "cache", c.useCase)
}

// Len returns the number of entries, including expired ones not yet cleaned up.
func (c *InMemoryCacheManager[V]) Len() int {
	return c.cache.ItemCount()
}
