// Package cache provides domain.CacheRepository implementations.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nutriscan/backend/internal/domain"
)

const defaultCleanupInterval = 10 * time.Minute

type cacheItem struct {
	Value      interface{}
	Expiration time.Time
}

// MemoryCache is a thread-safe in-process cache with per-key TTL.
// Values are stored as their JSON form, the same shape a redis round trip yields.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryCache creates a cache that sweeps expired keys every cleanupInterval
// (10 minutes when zero). Call Close to stop the sweeper.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	}

	c := &MemoryCache{
		data: make(map[string]cacheItem),
		now:  time.Now,
		stop: make(chan struct{}),
	}
	go c.sweep(cleanupInterval)
	return c
}

// Get returns the stored JSON form of the value
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, ok := c.data[key]
	if !ok || c.expired(item) {
		return nil, domain.ErrCacheMiss
	}
	return item.Value, nil
}

// Set stores value for ttl; a non-positive ttl never expires
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var stored interface{}
	if err := json.Unmarshal(encoded, &stored); err != nil {
		return err
	}

	item := cacheItem{Value: stored}
	if ttl > 0 {
		item.Expiration = c.now().Add(ttl)
	}

	c.mutex.Lock()
	c.data[key] = item
	c.mutex.Unlock()
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, ok := c.data[key]
	return ok && !c.expired(item), nil
}

// Len returns the number of stored keys, expired ones included until swept
func (c *MemoryCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Close stops the background sweeper
func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

func (c *MemoryCache) expired(item cacheItem) bool {
	return !item.Expiration.IsZero() && c.now().After(item.Expiration)
}

func (c *MemoryCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *MemoryCache) removeExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for key, item := range c.data {
		if c.expired(item) {
			delete(c.data, key)
		}
	}
}
