package lru

import (
	"container/list"
	"sync"
)

type CacheIdentifier interface {
	Identifier() string
}

type listEntry[T CacheIdentifier] struct {
	id    string
	entry T
}

// Cache is a thread-safe, capacity-bound cache of generic entries.
// The least recently used entry is evicted first.
type Cache[T CacheIdentifier] struct {
	capacity int
	onEvict  func(T)

	mu    sync.RWMutex
	order *list.List
	index map[string]*list.Element
}

type Option[T CacheIdentifier] func(*Cache[T])

// WithOnEvict registers a callback invoked, under the cache lock, for every
// entry dropped because the capacity was reached.
func WithOnEvict[T CacheIdentifier](fn func(T)) Option[T] {
	return func(c *Cache[T]) {
		c.onEvict = fn
	}
}

func NewCache[T CacheIdentifier](capacity int, opts ...Option[T]) *Cache[T] {
	if capacity < 1 {
		capacity = 1
	}
	c := &Cache[T]{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache[T]) addEntryUnsafe(entry T) {
	id := entry.Identifier()

	if element, ok := c.index[id]; ok {
		element.Value.(*listEntry[T]).entry = entry
		c.order.MoveToFront(element)
		return
	}

	if c.order.Len() >= c.capacity {
		c.evictUnsafe()
	}

	c.index[id] = c.order.PushFront(&listEntry[T]{id: id, entry: entry})
}

func (c *Cache[T]) evictUnsafe() {
	element := c.order.Back()
	if element == nil {
		return
	}
	evicted := c.order.Remove(element).(*listEntry[T])
	delete(c.index, evicted.id)
	if c.onEvict != nil {
		c.onEvict(evicted.entry)
	}
}

// Add inserts the entry, or replaces and refreshes the entry with the same
// identifier.
func (c *Cache[T]) Add(entry T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.addEntryUnsafe(entry)
}

func (c *Cache[T]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.order.Len()
}

// GetByID returns the entry and marks it as most recently used.
func (c *Cache[T]) GetByID(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	c.order.MoveToFront(element)
	return element.Value.(*listEntry[T]).entry, true
}

func (c *Cache[T]) DeleteByID(id string) (present bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.index[id]
	if !ok {
		return false
	}
	c.order.Remove(element)
	delete(c.index, id)
	return true
}

// List returns the entries from the least to the most recently used.
func (c *Cache[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]T, 0, c.order.Len())
	for element := c.order.Back(); element != nil; element = element.Prev() {
		entries = append(entries, element.Value.(*listEntry[T]).entry)
	}

	return entries
}
