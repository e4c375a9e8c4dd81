// Package resource implements the client-side cache of one kind of server
// record and the operations that keep it in step with the backend.
package resource

import "sync"

// Identified is implemented by every cached record.
type Identified interface {
	Key() string
}

// Placement decides where newly created records go.
type Placement int

const (
	Tail Placement = iota
	// Head is used by recency-ordered kinds such as focus sessions.
	Head
)

// Cache is an ordered map of records keyed by Key. Keys are unique: putting
// a record whose key is already present replaces it in place.
type Cache[T Identified] struct {
	mu      sync.RWMutex
	order   []string
	items   map[string]T
	loading int
	lastErr error
}

func NewCache[T Identified]() *Cache[T] {
	return &Cache[T]{items: make(map[string]T)}
}

func (c *Cache[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	return item, ok
}

// List returns the records in cache order.
func (c *Cache[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Loading is true while at least one fetch is in flight.
func (c *Cache[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading > 0
}

// LastError is the error of the most recent failed fetch, cleared by the
// next successful one. Write failures are never recorded here.
func (c *Cache[T]) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Replace swaps the whole content for items, keeping their order. A key
// that occurs twice keeps its first position and its last value.
func (c *Cache[T]) Replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = c.order[:0]
	c.items = make(map[string]T, len(items))
	for _, item := range items {
		id := item.Key()
		if _, dup := c.items[id]; !dup {
			c.order = append(c.order, id)
		}
		c.items[id] = item
	}
}

// Insert adds item at the head or tail, or replaces it in place when its
// key is already cached.
func (c *Cache[T]) Insert(item T, at Placement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.insertLocked(item, at)
}

func (c *Cache[T]) insertLocked(item T, at Placement) {
	id := item.Key()
	if _, ok := c.items[id]; ok {
		c.items[id] = item
		return
	}
	c.items[id] = item
	if at == Head {
		c.order = append([]string{id}, c.order...)
		return
	}
	c.order = append(c.order, id)
}

// InsertAt puts item back at index, clamped to the current length. It is
// how removed records are restored to their previous position.
func (c *Cache[T]) InsertAt(item T, index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := item.Key()
	if _, ok := c.items[id]; ok {
		c.items[id] = item
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(c.order) {
		index = len(c.order)
	}
	c.items[id] = item
	c.order = append(c.order, "")
	copy(c.order[index+1:], c.order[index:])
	c.order[index] = id
}

// Index reports the position of id, or -1 when it is not cached.
func (c *Cache[T]) Index(id string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.items[id]; !ok {
		return -1
	}
	for i, k := range c.order {
		if k == id {
			return i
		}
	}
	return -1
}

// Remove deletes id and reports the record and the index it held.
func (c *Cache[T]) Remove(id string) (T, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[id]
	if !ok {
		return item, -1, false
	}
	delete(c.items, id)
	idx := -1
	for i, k := range c.order {
		if k == id {
			idx = i
			break
		}
	}
	if idx >= 0 {
		c.order = append(c.order[:idx], c.order[idx+1:]...)
	}
	return item, idx, true
}

// Reset returns the cache to its initial empty state.
func (c *Cache[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = nil
	c.items = make(map[string]T)
	c.loading = 0
	c.lastErr = nil
}

func (c *Cache[T]) beginFetch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading++
}

func (c *Cache[T]) endFetch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading > 0 {
		c.loading--
	}
}

func (c *Cache[T]) setLastError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
}
