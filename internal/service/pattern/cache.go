package pattern

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mendapp/mend/internal/domain"
)

// DefaultSnapshotTTL is how long a computed snapshot is reused.
const DefaultSnapshotTTL = 5 * time.Minute

// Cache memoizes snapshots per user. Get returns ErrCacheMiss when nothing
// is stored. Entries are last-writer-wins; no locking beyond map safety.
type Cache interface {
	Get(ctx context.Context, userID string) (domain.PatternSnapshot, error)
	Set(ctx context.Context, snap domain.PatternSnapshot, ttl time.Duration) error
	Delete(ctx context.Context, userID string) error
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
	now   func() time.Time
}

type memoryEntry struct {
	snap      domain.PatternSnapshot
	expiresAt time.Time
}

// NewMemoryCache creates an empty process-local cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, userID string) (domain.PatternSnapshot, error) {
	c.mu.RLock()
	e, ok := c.items[userID]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expiresAt) {
		return domain.PatternSnapshot{}, ErrCacheMiss
	}
	return e.snap, nil
}

func (c *MemoryCache) Set(_ context.Context, snap domain.PatternSnapshot, ttl time.Duration) error {
	c.mu.Lock()
	c.items[snap.UserID] = memoryEntry{snap: snap, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, userID string) error {
	c.mu.Lock()
	delete(c.items, userID)
	c.mu.Unlock()
	return nil
}

// RedisCache stores snapshots as JSON values with a TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a Redis-backed cache. Keys are "<prefix>:<user id>".
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "mend:snapshot"
	}
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) key(userID string) string {
	return fmt.Sprintf("%s:%s", c.prefix, userID)
}

func (c *RedisCache) Get(ctx context.Context, userID string) (domain.PatternSnapshot, error) {
	var snap domain.PatternSnapshot
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return snap, ErrCacheMiss
	}
	if err != nil {
		return snap, fmt.Errorf("snapshot cache get: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("snapshot cache decode: %w", err)
	}
	return snap, nil
}

func (c *RedisCache) Set(ctx context.Context, snap domain.PatternSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(snap.UserID), data, ttl).Err(); err != nil {
		return fmt.Errorf("snapshot cache set: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("snapshot cache delete: %w", err)
	}
	return nil
}
