package redis

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	client, _ := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "holder:1", `{"id":"1"}`, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := cache.Get(ctx, "holder:1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != `{"id":"1"}` {
		t.Errorf("Get() = %q", got)
	}
}

func TestCacheMissIsNotAnError(t *testing.T) {
	client, _ := newTestRedisClient(t)
	cache := NewCache(client)

	got, err := cache.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "" {
		t.Errorf("Get() = %q, want empty", got)
	}
}

func TestCacheDelete(t *testing.T) {
	client, _ := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cache.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	got, err := cache.Get(ctx, "k")
	if err != nil || got != "" {
		t.Errorf("Get() after delete = %q, %v", got, err)
	}
}

func TestCacheExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", "v", time.Second); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	mr.FastForward(2 * time.Second)

	got, err := cache.Get(ctx, "k")
	if err != nil || got != "" {
		t.Errorf("Get() after expiry = %q, %v", got, err)
	}
}
