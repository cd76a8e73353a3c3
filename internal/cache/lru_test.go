package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func TestLRUCache_GetSet(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %v, %v", v, ok)
	}
	// "b" is now least recently used
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if c.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", c.Size())
	}
	if s := c.Stats(); s.Hits != 1 || s.Misses != 1 || s.Evictions != 1 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}

func TestLRUCache_TTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](10, time.Minute, WithClock(clock.Now))

	c.Set("k", "v")
	clock.Advance(59 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired too early")
	}
	clock.Advance(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry should have expired")
	}
}

func TestLRUCache_CleanExpired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCache[int](10, time.Minute, WithClock(clock.Now))

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("old-%d", i), i)
	}
	clock.Advance(2 * time.Minute)
	c.Set("fresh", 1)

	if removed := c.CleanExpired(); removed != 3 {
		t.Fatalf("CleanExpired() = %d, want 3", removed)
	}
	if c.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", c.Size())
	}
}

func TestLRUCache_DeleteAndPurge(t *testing.T) {
	c := NewLRUCache[int](0, time.Minute)
	c.Set("a", 1)
	c.Delete("a")
	if c.Size() != 0 {
		t.Fatalf("Size() after delete = %d", c.Size())
	}

	c.Set("b", 2)
	c.Purge()
	if _, ok := c.Get("b"); ok || c.Size() != 0 {
		t.Fatal("Purge should drop every entry")
	}
}

func TestLRUCache_Concurrent(t *testing.T) {
	c := NewLRUCache[int](50, time.Minute)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("%d-%d", g, i%20)
				c.Set(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()
	if c.Size() > 50 {
		t.Fatalf("Size() = %d exceeds max", c.Size())
	}
}
