// Package memo provides a read-mostly map shared between concurrent renders.
//
// Lookups take the read lock only. A miss escalates to the write lock and
// repeats the lookup before building the value, so a value is built at most
// once per key even when several goroutines miss at the same time.
package memo

import "sync"

// Map is a concurrency-safe memo table. The zero value is ready to use.
type Map[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

// Get returns the cached value for key, if any.
func (c *Map[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok
}

// GetOrCreate returns the cached value for key, calling create on a miss.
// Errors from create are returned and nothing is stored.
func (c *Map[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// another writer may have filled the slot while we waited
	if v, ok := c.m[key]; ok {
		return v, nil
	}
	v, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	if c.m == nil {
		c.m = make(map[K]V)
	}
	c.m[key] = v
	return v, nil
}

// Len returns the number of cached entries.
func (c *Map[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
