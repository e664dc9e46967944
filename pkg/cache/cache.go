package cache

import (
	"sync"
	"time"
)

type Item struct {
	Value      interface{}
	Expiration int64
}

func (i Item) expired(now int64) bool {
	return i.Expiration > 0 && now > i.Expiration
}

// Cache is an in-process TTL map. Update gives callers an atomic
// read-modify-write on a single key.
type Cache struct {
	items map[string]Item
	mu    sync.RWMutex
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

func NewCache() *Cache {
	return newCache(time.Now, time.Minute)
}

func newCache(now func() time.Time, gcInterval time.Duration) *Cache {
	cache := &Cache{
		items: make(map[string]Item),
		now:   now,
		stop:  make(chan struct{}),
	}
	go cache.startGC(gcInterval)
	return cache
}

func (c *Cache) expiration(duration time.Duration) int64 {
	if duration <= 0 {
		return 0
	}
	return c.now().Add(duration).UnixNano()
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found || item.expired(c.now().UnixNano()) {
		return nil, false
	}

	return item.Value, true
}

// Update replaces the value at key with fn(current, found) and refreshes its TTL
func (c *Cache) Update(key string, duration time.Duration, fn func(current interface{}, found bool) interface{}) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	if found && item.expired(c.now().UnixNano()) {
		found = false
	}

	var current interface{}
	if found {
		current = item.Value
	}

	next := fn(current, found)
	c.items[key] = Item{
		Value:      next,
		Expiration: c.expiration(duration),
	}
	return next
}

// Close stops the background sweeper
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) startGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := c.now().UnixNano()
			c.mu.Lock()
			for k, v := range c.items {
				if v.expired(now) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
