package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nutriscan/backend/internal/domain"
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
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T) (*MemoryCache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(time.Hour)
	c.now = clock.Now
	t.Cleanup(func() { c.Close() })
	return c, clock
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		value interface{}
		want  interface{}
	}{
		{name: "string", value: "grilled_chicken", want: "grilled_chicken"},
		{name: "number becomes float64", value: 42, want: float64(42)},
		{
			name:  "struct becomes a map",
			value: domain.Prediction{Name: "banana", Confidence: 0.5},
			want:  map[string]interface{}{"name": "banana", "confidence": 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Set(ctx, tt.name, tt.value, time.Minute); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := c.Get(ctx, tt.name)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("Get() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	c, clock := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "short", "v", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Set(ctx, "forever", "v", 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	clock.Advance(2 * time.Minute)

	if _, err := c.Get(ctx, "short"); err != domain.ErrCacheMiss {
		t.Errorf("Get(short) error = %v, want ErrCacheMiss", err)
	}
	if ok, _ := c.Exists(ctx, "short"); ok {
		t.Error("Exists(short) = true after expiry")
	}
	if _, err := c.Get(ctx, "forever"); err != nil {
		t.Errorf("Get(forever) error = %v", err)
	}

	c.removeExpired()
	if n := c.Len(); n != 1 {
		t.Errorf("Len() = %d after sweep, want 1", n)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := c.Get(ctx, "k"); err != domain.ErrCacheMiss {
		t.Errorf("Get() after delete error = %v, want ErrCacheMiss", err)
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestMemoryCache_SetRejectsUnencodable(t *testing.T) {
	c, _ := newTestCache(t)

	if err := c.Set(context.Background(), "k", make(chan int), time.Minute); err == nil {
		t.Error("Set() with a channel should fail")
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", id)
			if err := c.Set(ctx, key, id, time.Minute); err != nil {
				t.Errorf("Set() error = %v", err)
			}
			if _, err := c.Get(ctx, key); err != nil {
				t.Errorf("Get() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if n := c.Len(); n != 10 {
		t.Errorf("Len() = %d, want 10", n)
	}
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	c := NewMemoryCache(0)
	c.Close()
	c.Close()
}
