package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestCache_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := newCache(clock.Now, time.Hour)
	defer c.Close()

	c.Update("k", time.Minute, func(interface{}, bool) interface{} { return "v" })
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	clock.Advance(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_UpdateIsAtomic(t *testing.T) {
	c := NewCache()
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Update("n", time.Minute, func(current interface{}, found bool) interface{} {
				if !found {
					return 1
				}
				return current.(int) + 1
			})
		}()
	}
	wg.Wait()

	v, ok := c.Get("n")
	assert.True(t, ok)
	assert.Equal(t, 50, v)
}

func TestCache_UpdateTreatsExpiredAsMissing(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := newCache(clock.Now, time.Hour)
	defer c.Close()

	c.Update("k", time.Second, func(interface{}, bool) interface{} { return 10 })
	clock.Advance(time.Minute)

	got := c.Update("k", time.Second, func(current interface{}, found bool) interface{} {
		assert.False(t, found)
		return 1
	})
	assert.Equal(t, 1, got)
}
