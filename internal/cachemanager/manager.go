// Package cachemanager provides small typed caches over go-cache.
package cachemanager

import "time"

// CacheManager is a typed key/value cache.
type CacheManager[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V, ttl time.Duration)
	Delete(keys ...string)
	Flush()
	Len() int
}
