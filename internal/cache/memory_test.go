package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	key := CacheKey("dashboard", "stats")
	if err := mc.Set(ctx, key, []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := mc.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("Get = %q, want %q", got, "value")
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	if _, err := mc.Get(context.Background(), "absent"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := mc.Get(ctx, "k"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss after TTL, got %v", err)
	}
	exists, err := mc.Exists(ctx, "k")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Error("expected expired key to not exist")
	}
}

func TestMemoryCacheClearPattern(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	mc.Set(ctx, CacheKey("dashboard", "stats"), []byte("a"), time.Minute)
	mc.Set(ctx, CacheKey("dashboard", "jour"), []byte("b"), time.Minute)
	mc.Set(ctx, CacheKey("patients", "1"), []byte("c"), time.Minute)

	if err := mc.Clear(ctx, CacheKey("dashboard")+"*"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if _, err := mc.Get(ctx, CacheKey("dashboard", "stats")); err != ErrCacheMiss {
		t.Error("expected dashboard keys cleared")
	}
	if _, err := mc.Get(ctx, CacheKey("patients", "1")); err != nil {
		t.Error("expected unrelated key to survive")
	}
}

func TestCacheKey(t *testing.T) {
	if got := CacheKey("dashboard", "stats"); got != "hospital:dashboard:stats" {
		t.Errorf("CacheKey = %q", got)
	}
	if got := CacheKey("a", "", "b"); got != "hospital:a:b" {
		t.Errorf("CacheKey skips empty parts, got %q", got)
	}
}
