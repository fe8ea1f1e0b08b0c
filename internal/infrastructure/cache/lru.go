// Package cache provides a bounded, time-expiring in-memory cache with
// least-recently-used eviction. Instances are explicitly constructed with
// their own capacity and TTL and injected where needed; there is no shared
// process-level cache state.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// entry is one cached value with its insertion time. Entries are owned
// exclusively by the cache and never escape it; values are copied in and
// out.
type entry[V any] struct {
	key        string
	value      V
	insertedAt time.Time
}

// LRU is a thread-safe key/value cache bounded by entry count, with entries
// expiring ttl after insertion. Eviction on overflow removes the least
// recently used entry; a Get counts as use. Expired entries are dropped
// lazily on access and on insert, so the cache runs no background
// goroutine.
//
// The read path takes only the read lock to locate an entry; the write lock
// is held briefly to maintain recency order and to evict.
type LRU[V any] struct {
	capacity int
	ttl      time.Duration

	mu    sync.RWMutex
	order *list.List // front = most recently used
	items map[string]*list.Element

	now func() time.Time // injectable clock for expiry tests
}

// New creates a cache holding at most capacity entries, each valid for ttl
// after insertion.
func New[V any](capacity int, ttl time.Duration) *LRU[V] {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU[V]{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[string]*list.Element),
		now:      time.Now,
	}
}

// Get returns the value cached under key, if present and not expired.
func (c *LRU[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.RLock()
	elem, ok := c.items[key]
	var value V
	var expired bool
	if ok {
		ent := elem.Value.(*entry[V])
		expired = c.now().Sub(ent.insertedAt) > c.ttl
		value = ent.value
	}
	c.mu.RUnlock()

	if !ok {
		return zero, false
	}
	if expired {
		c.mu.Lock()
		// Re-check under the write lock: another goroutine may have
		// replaced the entry since the read lock was dropped.
		if elem, ok := c.items[key]; ok {
			ent := elem.Value.(*entry[V])
			if c.now().Sub(ent.insertedAt) > c.ttl {
				c.removeElement(elem)
			}
		}
		c.mu.Unlock()
		return zero, false
	}

	c.mu.Lock()
	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
	}
	c.mu.Unlock()
	return value, true
}

// Put stores value under key, replacing any previous entry and evicting the
// least recently used entry when the cache is full.
func (c *LRU[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		ent := elem.Value.(*entry[V])
		ent.value = value
		ent.insertedAt = c.now()
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(&entry[V]{
		key:        key,
		value:      value,
		insertedAt: c.now(),
	})

	for c.order.Len() > c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Len returns the number of entries currently held, expired or not.
func (c *LRU[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Purge drops every entry.
func (c *LRU[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element)
}

// removeElement must be called with the write lock held.
func (c *LRU[V]) removeElement(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.items, elem.Value.(*entry[V]).key)
}
