package reflection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCooldown is the minimum time between two fires for one client.
const DefaultCooldown = 10 * time.Minute

// Throttle is the cross-session frequency state for a client.
type Throttle interface {
	// Blocked reports whether a fire happened within the cooldown or the
	// client dismissed a reflection earlier on the same calendar day.
	Blocked(ctx context.Context, clientID string, now time.Time) (bool, error)
	// RecordFire stamps the cooldown.
	RecordFire(ctx context.Context, clientID string, now time.Time) error
	// SuppressDay sets the flag that blocks the rest of now's calendar day.
	SuppressDay(ctx context.Context, clientID string, now time.Time) error
}

// ThrottleConfig is shared by the throttle backends.
type ThrottleConfig struct {
	Cooldown time.Duration
	// Location decides where a calendar day starts and ends.
	Location *time.Location
}

func (c ThrottleConfig) withDefaults() ThrottleConfig {
	if c.Cooldown <= 0 {
		c.Cooldown = DefaultCooldown
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	return c
}

func (c ThrottleConfig) day(now time.Time) string {
	return now.In(c.Location).Format("2006-01-02")
}

func (c ThrottleConfig) endOfDay(now time.Time) time.Time {
	local := now.In(c.Location)
	y, m, d := local.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, c.Location)
}

// MemoryThrottle keeps throttle state in process memory.
type MemoryThrottle struct {
	cfg ThrottleConfig

	mu         sync.Mutex
	firedAt    map[string]time.Time
	suppressed map[string]string
}

// NewMemoryThrottle creates an empty in-memory throttle.
func NewMemoryThrottle(cfg ThrottleConfig) *MemoryThrottle {
	return &MemoryThrottle{
		cfg:        cfg.withDefaults(),
		firedAt:    make(map[string]time.Time),
		suppressed: make(map[string]string),
	}
}

func (t *MemoryThrottle) Blocked(_ context.Context, clientID string, now time.Time) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if at, ok := t.firedAt[clientID]; ok && now.Sub(at) < t.cfg.Cooldown {
		return true, nil
	}
	return t.suppressed[clientID] == t.cfg.day(now), nil
}

func (t *MemoryThrottle) RecordFire(_ context.Context, clientID string, now time.Time) error {
	t.mu.Lock()
	t.firedAt[clientID] = now
	t.mu.Unlock()
	return nil
}

func (t *MemoryThrottle) SuppressDay(_ context.Context, clientID string, now time.Time) error {
	t.mu.Lock()
	t.suppressed[clientID] = t.cfg.day(now)
	t.mu.Unlock()
	return nil
}

// RedisThrottle keeps throttle state in Redis so every replica shares it.
// The cooldown key expires after the cooldown and the suppress key at the
// end of the calendar day.
type RedisThrottle struct {
	client *redis.Client
	prefix string
	cfg    ThrottleConfig
}

// NewRedisThrottle creates a Redis-backed throttle. Keys start with prefix
// (default "mend:reflection").
func NewRedisThrottle(client *redis.Client, prefix string, cfg ThrottleConfig) *RedisThrottle {
	if prefix == "" {
		prefix = "mend:reflection"
	}
	return &RedisThrottle{client: client, prefix: prefix, cfg: cfg.withDefaults()}
}

func (t *RedisThrottle) firedKey(clientID string) string {
	return fmt.Sprintf("%s:fired:%s", t.prefix, clientID)
}

func (t *RedisThrottle) suppressKey(clientID string, now time.Time) string {
	return fmt.Sprintf("%s:suppress:%s:%s", t.prefix, clientID, t.cfg.day(now))
}

func (t *RedisThrottle) Blocked(ctx context.Context, clientID string, now time.Time) (bool, error) {
	n, err := t.client.Exists(ctx, t.firedKey(clientID), t.suppressKey(clientID, now)).Result()
	if err != nil {
		return false, fmt.Errorf("throttle lookup: %w", err)
	}
	return n > 0, nil
}

func (t *RedisThrottle) RecordFire(ctx context.Context, clientID string, now time.Time) error {
	if err := t.client.Set(ctx, t.firedKey(clientID), now.UTC().Format(time.RFC3339), t.cfg.Cooldown).Err(); err != nil {
		return fmt.Errorf("throttle record fire: %w", err)
	}
	return nil
}

func (t *RedisThrottle) SuppressDay(ctx context.Context, clientID string, now time.Time) error {
	key := t.suppressKey(clientID, now)
	pipe := t.client.TxPipeline()
	pipe.Set(ctx, key, "1", 0)
	pipe.ExpireAt(ctx, key, t.cfg.endOfDay(now))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("throttle suppress: %w", err)
	}
	return nil
}
