// Package cache provides a small bounded in-process cache with
// oldest-first eviction.
package cache

import (
	"sync"
)

// FIFO is a bounded key-value cache. When the cache is full, inserting a
// new key evicts the oldest inserted entry. Re-inserting an existing key
// replaces the value without changing its insertion position. Thread-safe
// for concurrent access.
type FIFO[V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]V
	order    []string
}

// NewFIFO creates a FIFO cache holding at most capacity entries.
// Capacity values below 1 are treated as 1.
func NewFIFO[V any](capacity int) *FIFO[V] {
	if capacity < 1 {
		capacity = 1
	}
	return &FIFO[V]{
		capacity: capacity,
		entries:  make(map[string]V, capacity),
	}
}

// Get returns the cached value for key and whether it was present.
func (c *FIFO[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[key]
	return v, ok
}

// Put stores value under key, evicting the oldest entry if the cache is at
// capacity and key is not already present.
func (c *FIFO[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = value
		return
	}

	if len(c.entries) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = value
	c.order = append(c.order, key)
}

// Len returns the current number of cached entries.
func (c *FIFO[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *FIFO[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]V, c.capacity)
	c.order = nil
}
