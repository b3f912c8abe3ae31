package cachemanager

import (
	"sync/atomic"
	"time"
)

// ReadThroughCache computes missing values with fn and stores them.
type ReadThroughCache[V any, I any] struct {
	cache  CacheManager[V]
	fn     func(input I) V
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// NewReadThroughCache wraps cache with the loader fn.
func NewReadThroughCache[V any, I any](cache CacheManager[V], fn func(input I) V, ttl time.Duration) *ReadThroughCache[V, I] {
	return &ReadThroughCache[V, I]{
		cache: cache,
		fn:    fn,
		ttl:   ttl,
	}
}

// Get returns the cached value for key, computing it from input on a miss.
func (r *ReadThroughCache[V, I]) Get(key string, input I) V {
	if value, ok := r.cache.Get(key); ok {
		r.hits.Add(1)
		return value
	}

	r.misses.Add(1)
	value := r.fn(input)
	r.cache.Set(key, value, r.ttl)
	return value
}

// Stats returns the hit and miss counters.
func (r *ReadThroughCache[V, I]) Stats() (hits, misses int64) {
	return r.hits.Load(), r.misses.Load()
}

// Reset drops every entry and zeroes the counters.
func (r *ReadThroughCache[V, I]) Reset() {
	r.cache.Flush()
	r.hits.Store(0)
	r.misses.Store(0)
}
