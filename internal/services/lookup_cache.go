package services

import (
	"fmt"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/metrics"
	lru "github.com/hashicorp/golang-lru"
)

// lookupCache keeps catalogue rows by ID. Tags and ingredients are written
// rarely and read on every recipe write, so an LRU in front of the DB pays off.
type lookupCache struct {
	kind  string
	cache *lru.Cache
}

func newLookupCache(kind string, size int) (*lookupCache, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create %s cache: %w", kind, err)
	}
	return &lookupCache{kind: kind, cache: cache}, nil
}

func (c *lookupCache) get(id uint) (interface{}, bool) {
	v, ok := c.cache.Get(id)
	metrics.RecordCatalogLookup(c.kind, ok)
	return v, ok
}

func (c *lookupCache) add(id uint, v interface{}) {
	c.cache.Add(id, v)
}

func (c *lookupCache) len() int {
	return c.cache.Len()
}
