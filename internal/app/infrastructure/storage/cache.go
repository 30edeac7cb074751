package storage

import (
	"time"

	"github.com/maypok86/otter/v2"
)

// Cache - ограниченный кэш с TTL от момента записи.
type Cache[T any] struct {
	outer *otter.Cache[string, T]
}

func NewCache[T any](capacity int, ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		outer: otter.Must(&otter.Options[string, T]{
			MaximumSize:      capacity,
			InitialCapacity:  min(capacity, 1024),
			ExpiryCalculator: otter.ExpiryWriting[string, T](ttl),
		}),
	}
}

func (c *Cache[T]) Set(key string, val T) {
	c.outer.Set(key, val)
}

func (c *Cache[T]) Get(key string) (T, bool) {
	return c.outer.GetIfPresent(key)
}

// Remember записывает значение, только если ключа ещё нет. Возвращает true при записи.
func (c *Cache[T]) Remember(key string, val T) bool {
	_, inserted := c.outer.SetIfAbsent(key, val)
	return inserted
}

func (c *Cache[T]) ClearKey(key string) {
	c.outer.Invalidate(key)
}

func (c *Cache[T]) ClearAll() {
	c.outer.InvalidateAll()
}

func (c *Cache[T]) Len() int {
	return c.outer.EstimatedSize()
}
