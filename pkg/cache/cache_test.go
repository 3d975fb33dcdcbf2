package cache

import (
	"context"
	"testing"
	"time"
)

func TestLRUCache(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		ttl      time.Duration
		actions  func(c *LRUCache[string], t *testing.T)
	}{
		{
			name:     "set and get within TTL",
			capacity: 2,
			ttl:      time.Second,
			actions: func(c *LRUCache[string], t *testing.T) {
				c.Set("a", "1")
				if v, ok := c.Get("a"); !ok || v != "1" {
					t.Errorf("expected value=1, got=%v, ok=%v", v, ok)
				}
			},
		},
		{
			name:     "get after expiration",
			capacity: 2,
			ttl:      time.Millisecond * 50,
			actions: func(c *LRUCache[string], t *testing.T) {
				c.Set("a", "1")
				time.Sleep(time.Millisecond * 60)
				if _, ok := c.Get("a"); ok {
					t.Errorf("expected key to be expired")
				}
			},
		},
		{
			name:     "evict oldest when over capacity",
			capacity: 2,
			ttl:      time.Second,
			actions: func(c *LRUCache[string], t *testing.T) {
				c.Set("a", "1")
				c.Set("b", "2")
				c.Set("c", "3")
				if _, ok := c.Get("a"); ok {
					t.Errorf("expected key 'a' to be evicted")
				}
				if v, ok := c.Get("b"); !ok || v != "2" {
					t.Errorf("expected b=2, got %v", v)
				}
				if v, ok := c.Get("c"); !ok || v != "3" {
					t.Errorf("expected c=3, got %v", v)
				}
			},
		},
		{
			name:     "recent access protects from eviction",
			capacity: 2,
			ttl:      time.Second,
			actions: func(c *LRUCache[string], t *testing.T) {
				c.Set("a", "1")
				c.Set("b", "2")
				c.Get("a")
				c.Set("c", "3")
				if _, ok := c.Get("a"); !ok {
					t.Errorf("expected recently used key 'a' to survive")
				}
				if _, ok := c.Get("b"); ok {
					t.Errorf("expected key 'b' to be evicted")
				}
			},
		},
		{
			name:     "update value resets TTL",
			capacity: 2,
			ttl:      time.Millisecond * 50,
			actions: func(c *LRUCache[string], t *testing.T) {
				c.Set("a", "1")
				time.Sleep(time.Millisecond * 30)
				c.Set("a", "2")
				time.Sleep(time.Millisecond * 30)
				if v, ok := c.Get("a"); !ok || v != "2" {
					t.Errorf("expected updated value=2, got=%v", v)
				}
			},
		},
		{
			name:     "purge drops everything",
			capacity: 4,
			ttl:      time.Second,
			actions: func(c *LRUCache[string], t *testing.T) {
				c.Set("a", "1")
				c.Set("b", "2")
				c.Purge()
				if c.Size() != 0 {
					t.Errorf("expected empty cache after purge, size=%d", c.Size())
				}
				if _, ok := c.Get("a"); ok {
					t.Errorf("expected key 'a' to be gone after purge")
				}
			},
		},
		{
			name:     "janitor removes expired",
			capacity: 2,
			ttl:      time.Millisecond * 50,
			actions: func(c *LRUCache[string], t *testing.T) {
				ctx, cancel := context.WithCancel(context.Background())
				defer cancel()
				c.StartJanitor(ctx)

				c.Set("a", "1")
				time.Sleep(time.Millisecond * 60)

				c.cleanup()

				if _, ok := c.Get("a"); ok {
					t.Errorf("expected janitor cleanup to remove expired key")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New[string](tt.capacity, tt.ttl)
			tt.actions(c, t)
		})
	}
}
