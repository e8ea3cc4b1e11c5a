package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultMemoryBytes 是 MemoryCache 的默认容量。
const DefaultMemoryBytes = 64 << 20

type entry struct {
	key     string
	data    []byte
	expires time.Time
}

// MemoryCache 是进程内缓存，没有配置 Redis 时使用。
// 总字节数超过上限时按写入顺序淘汰最旧的条目；大于上限的值不缓存。
type MemoryCache struct {
	mu       sync.Mutex
	maxBytes int
	size     int
	order    *list.List // 最旧的在前
	entries  map[string]*list.Element
	now      func() time.Time
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache 创建容量为 maxBytes 的缓存，maxBytes <= 0 时使用 DefaultMemoryBytes。
func NewMemoryCache(maxBytes int) *MemoryCache {
	if maxBytes <= 0 {
		maxBytes = DefaultMemoryBytes
	}
	return &MemoryCache{
		maxBytes: maxBytes,
		order:    list.New(),
		entries:  map[string]*list.Element{},
		now:      time.Now,
	}
}

func (c *MemoryCache) expired(e *entry, now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

func (c *MemoryCache) remove(el *list.Element) {
	e := c.order.Remove(el).(*entry)
	delete(c.entries, e.key)
	c.size -= len(e.data)
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	e := el.Value.(*entry)
	if c.expired(e, c.now()) {
		c.remove(el)
		return nil, false, nil
	}
	return e.data, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}
	if len(data) > c.maxBytes {
		return nil
	}
	now := c.now()
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if c.expired(el.Value.(*entry), now) {
			c.remove(el)
		}
		el = next
	}
	for c.size+len(data) > c.maxBytes {
		c.remove(c.order.Front())
	}
	e := &entry{key: key, data: data}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}
	c.entries[key] = c.order.PushBack(e)
	c.size += len(data)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}
	return nil
}

// Len 返回当前条目数。
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) Close() error { return nil }
