package cache

import (
	"fmt"

	"github.com/dgraph-io/ristretto"
)

const summaryKey = "summary:image"

// RistrettoSummaryCache holds the rendered summary PNG so repeated image
// requests between refreshes don't re-render. A refresh invalidates it.
type RistrettoSummaryCache struct {
	cache *ristretto.Cache
}

func NewSummaryCache(maxBytes int64) (*RistrettoSummaryCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1024,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create summary cache failed: %w", err)
	}
	return &RistrettoSummaryCache{cache: c}, nil
}

func (c *RistrettoSummaryCache) Get() ([]byte, bool) {
	if v, ok := c.cache.Get(summaryKey); ok {
		png, ok := v.([]byte)
		return png, ok
	}
	return nil, false
}

func (c *RistrettoSummaryCache) Set(png []byte) {
	c.cache.Set(summaryKey, png, int64(len(png)))
}

func (c *RistrettoSummaryCache) Invalidate() {
	c.cache.Del(summaryKey)
}

func (c *RistrettoSummaryCache) Close() { c.cache.Close() }
