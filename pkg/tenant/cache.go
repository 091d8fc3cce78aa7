package tenant

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache stores resolved associations by identifier.
type Cache interface {
	Get(key string) (*Association, bool)
	Add(key string, a *Association)
	Remove(key string)
}

// DefaultCacheSize bounds the number of cached associations.
const DefaultCacheSize = 1000

// NewLRUCache returns a cache holding at most size entries for ttl each.
func NewLRUCache(size int, ttl time.Duration) Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return lruCache{lru.NewLRU[string, *Association](size, nil, ttl)}
}

type lruCache struct {
	*lru.LRU[string, *Association]
}

func (c lruCache) Add(key string, a *Association) {
	c.LRU.Add(key, a)
}

func (c lruCache) Remove(key string) {
	c.LRU.Remove(key)
}

type noopCache struct{}

// NewNoopCache returns a cache that stores nothing.
func NewNoopCache() Cache { return noopCache{} }

func (noopCache) Get(string) (*Association, bool) { return nil, false }
func (noopCache) Add(string, *Association)        {}
func (noopCache) Remove(string)                   {}
