package cache

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nutriscan/backend/internal/domain"
)

// unreachableClient points at a port nothing listens on
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	l.Close()

	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "://nope", ""); err == nil {
		t.Error("expected error for invalid url")
	}
}

func TestRedisCache_Unavailable(t *testing.T) {
	c := NewRedisCacheFromClient(unreachableClient(t), "nutriscan:")
	ctx := context.Background()

	if _, err := c.Get(ctx, "k"); !errors.Is(err, domain.ErrCacheUnavailable) {
		t.Errorf("Get() error = %v, want ErrCacheUnavailable", err)
	}
	if err := c.Set(ctx, "k", "v", time.Minute); !errors.Is(err, domain.ErrCacheUnavailable) {
		t.Errorf("Set() error = %v, want ErrCacheUnavailable", err)
	}
	if _, err := c.Exists(ctx, "k"); !errors.Is(err, domain.ErrCacheUnavailable) {
		t.Errorf("Exists() error = %v, want ErrCacheUnavailable", err)
	}
}

func TestRedisCache_SetRejectsUnencodable(t *testing.T) {
	c := NewRedisCacheFromClient(unreachableClient(t), "")

	err := c.Set(context.Background(), "k", func() {}, time.Minute)
	if err == nil || errors.Is(err, domain.ErrCacheUnavailable) {
		t.Errorf("Set() error = %v, want an encoding error", err)
	}
}
