package diagram

import (
	"fmt"
	"hash/fnv"

	"github.com/zjrosen/flowgen/internal/cachemanager"
	"github.com/zjrosen/flowgen/internal/log"
)

// Cache memoizes Build and RenderText by text content and grid size. The TUI
// re-renders on every frame, while the text only changes when a fragment
// arrives. Results are shared between callers and must not be modified.
type Cache struct {
	results *cachemanager.ReadThroughCache[Result, string]
	texts   *cachemanager.ReadThroughCache[string, textRequest]
}

type textRequest struct {
	text          string
	width, height int
}

// NewCache creates an empty render cache.
func NewCache() *Cache {
	c := &Cache{}
	c.results = cachemanager.NewReadThroughCache[Result, string](
		cachemanager.NewInMemoryCacheManager[Result]("diagram-results", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval),
		Build,
		0,
	)
	c.texts = cachemanager.NewReadThroughCache[string, textRequest](
		cachemanager.NewInMemoryCacheManager[string]("diagram-text", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval),
		func(req textRequest) string {
			return RenderText(c.Build(req.text), req.width, req.height)
		},
		0,
	)
	return c
}

// Build returns the memoized Build(text).
func (c *Cache) Build(text string) Result {
	return c.results.Get(textKey(text), text)
}

// Text returns the memoized RenderText(Build(text), width, height).
func (c *Cache) Text(text string, width, height int) string {
	key := fmt.Sprintf("%s:%dx%d", textKey(text), width, height)
	return c.texts.Get(key, textRequest{text: text, width: width, height: height})
}

// Reset drops every memoized entry and zeroes the counters. The app calls it
// when a generation starts, since prefixes of the previous document are never
// requested again.
func (c *Cache) Reset() {
	hits, misses := c.Stats()
	c.results.Reset()
	c.texts.Reset()
	log.Debug(log.CatCache, "diagram cache reset", "hits", hits, "misses", misses)
}

// Stats returns combined hit and miss counters.
func (c *Cache) Stats() (hits, misses int64) {
	rh, rm := c.results.Stats()
	th, tm := c.texts.Stats()
	return rh + th, rm + tm
}

func textKey(text string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	return fmt.Sprintf("%016x-%d", h.Sum64(), len(text))
}
