package cachemanager

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadThroughCache_ComputesOnce(t *testing.T) {
	calls := 0
	rt := NewReadThroughCache[string, string](
		NewInMemoryCacheManager[string]("test", DefaultExpiration, DefaultCleanupInterval),
		func(in string) string {
			calls++
			return strings.ToUpper(in)
		},
		NoExpiration,
	)

	require.Equal(t, "ABC", rt.Get("k", "abc"))
	require.Equal(t, "ABC", rt.Get("k", "ignored on hit"))
	require.Equal(t, 1, calls)

	hits, misses := rt.Stats()
	require.EqualValues(t, 1, hits)
	require.EqualValues(t, 1, misses)
}

func TestReadThroughCache_Reset(t *testing.T) {
	calls := 0
	rt := NewReadThroughCache[int, int](
		NewInMemoryCacheManager[int]("test", DefaultExpiration, DefaultCleanupInterval),
		func(in int) int {
			calls++
			return in * 2
		},
		0,
	)

	require.Equal(t, 4, rt.Get("k", 2))
	rt.Reset()
	require.Equal(t, 6, rt.Get("k", 3))
	require.Equal(t, 2, calls)

	hits, misses := rt.Stats()
	require.Zero(t, hits)
	require.EqualValues(t, 1, misses)
}
