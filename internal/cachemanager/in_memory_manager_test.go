package cachemanager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type exampleStruct struct {
	ID   int
	Name string
}

func TestInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := NewInMemoryCacheManager[exampleStruct]("test", DefaultExpiration, DefaultCleanupInterval)
	example := exampleStruct{Name: "apple"}
	cache.Set("ex:1", example, DefaultExpiration)

	got, ok := cache.Get("ex:1")
	require.True(t, ok)
	require.Equal(t, example, got)
}

func TestInMemoryCacheManager_GetMissing(t *testing.T) {
	cache := NewInMemoryCacheManager[string]("test", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get("missing")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_WrongType(t *testing.T) {
	cache := NewInMemoryCacheManager[string]("test", DefaultExpiration, DefaultCleanupInterval)
	cache.cache.Set("key", 123, DefaultExpiration)

	got, ok := cache.Get("key")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	cache := NewInMemoryCacheManager[string]("test", DefaultExpiration, DefaultCleanupInterval)
	cache.Set("short", "v", time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get("short")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	cache := NewInMemoryCacheManager[string]("test", DefaultExpiration, DefaultCleanupInterval)
	cache.Set("a", "1", 0)
	cache.Set("b", "2", 0)
	cache.Set("c", "3", 0)
	require.Equal(t, 3, cache.Len())

	cache.Delete("a", "b")
	require.Equal(t, 1, cache.Len())

	cache.Flush()
	require.Zero(t, cache.Len())
}
