package cache

import (
	"testing"
	"time"
)

func TestTTLCacheExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := NewTTLCacheWithNow[string, int](func() time.Time { return now })

	c.Set("report:abc", 42, 15*time.Minute)

	if v, ok := c.Get("report:abc"); !ok || v != 42 {
		t.Fatalf("expected hit with 42, got %v %v", v, ok)
	}

	now = now.Add(14 * time.Minute)
	if _, ok := c.Get("report:abc"); !ok {
		t.Fatal("entry expired before its TTL")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("report:abc"); ok {
		t.Fatal("entry survived past its TTL")
	}
}

func TestTTLCacheZeroTTLNeverExpires(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := NewTTLCacheWithNow[string, string](func() time.Time { return now })

	c.Set("pinned", "value", 0)
	now = now.Add(24 * time.Hour)
	if _, ok := c.Get("pinned"); !ok {
		t.Fatal("zero-TTL entry should not expire")
	}
}

func TestTTLCacheFlush(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Flush()
	if _, ok := c.Get("a"); ok {
		t.Fatal("flush should drop all entries")
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("flush should drop all entries")
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *TTLCache[string, int]
	c.Set("x", 1, time.Minute)
	c.Delete("x")
	c.Flush()
	if _, ok := c.Get("x"); ok {
		t.Fatal("nil cache should always miss")
	}
}
