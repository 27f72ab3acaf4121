package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
)

// LRUBlockCache implements a simple byte-bounded LRU BlockCache.
type LRUBlockCache struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[CacheKey]*list.Element
	evictList *list.List

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	key   CacheKey
	value []byte
}

// NewLRUBlockCache creates a new LRU cache bounded to capacity bytes.
func NewLRUBlockCache(capacity int64) *LRUBlockCache {
	return &LRUBlockCache{
		capacity:  capacity,
		items:     make(map[CacheKey]*list.Element),
		evictList: list.New(),
	}
}

// Get returns a cached block.
func (c *LRUBlockCache) Get(_ context.Context, key CacheKey) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry).value, true
	}
	c.misses.Add(1)
	return nil, false
}

// Set caches a block. Blocks larger than the cache capacity are not stored.
func (c *LRUBlockCache) Set(_ context.Context, key CacheKey, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		old := ent.Value.(*entry)
		c.size += int64(len(b)) - int64(len(old.value))
		old.value = b
		c.evict()
		return
	}

	itemSize := int64(len(b))
	if itemSize > c.capacity {
		return
	}

	element := c.evictList.PushFront(&entry{key, b})
	c.items[key] = element
	c.size += itemSize
	c.evict()
}

// Invalidate removes entries matching the predicate.
func (c *LRUBlockCache) Invalidate(predicate func(key CacheKey) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toRemove []*list.Element
	for key, element := range c.items {
		if predicate(key) {
			toRemove = append(toRemove, element)
		}
	}
	for _, e := range toRemove {
		c.removeElement(e)
	}
}

func (c *LRUBlockCache) evict() {
	for c.size > c.capacity {
		element := c.evictList.Back()
		if element == nil {
			break
		}
		c.removeElement(element)
	}
}

func (c *LRUBlockCache) Close() error {
	return nil
}

func (c *LRUBlockCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Size returns the current size of the cache in bytes.
func (c *LRUBlockCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *LRUBlockCache) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	kv := e.Value.(*entry)
	delete(c.items, kv.key)
	c.size -= int64(len(kv.value))
}
