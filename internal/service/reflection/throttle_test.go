package reflection

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryThrottle(t *testing.T) {
	ctx := context.Background()
	th := NewMemoryThrottle(ThrottleConfig{Cooldown: 10 * time.Minute})

	blocked, err := th.Blocked(ctx, "c1", testNow)
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, th.RecordFire(ctx, "c1", testNow))
	blocked, _ = th.Blocked(ctx, "c1", testNow.Add(9*time.Minute))
	assert.True(t, blocked)
	blocked, _ = th.Blocked(ctx, "c1", testNow.Add(10*time.Minute))
	assert.False(t, blocked)

	require.NoError(t, th.SuppressDay(ctx, "c1", testNow))
	blocked, _ = th.Blocked(ctx, "c1", testNow.Add(11*time.Hour))
	assert.True(t, blocked, "still the same UTC day")
	blocked, _ = th.Blocked(ctx, "c1", testNow.Add(12*time.Hour))
	assert.False(t, blocked, "next UTC day")
}

func TestThrottleConfig_DayUsesLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	cfg := ThrottleConfig{Location: ist}.withDefaults()

	// 20:00 UTC is 01:30 the next day in IST.
	at := time.Date(2026, 6, 15, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-06-16", cfg.day(at))
	assert.Equal(t, time.Date(2026, 6, 17, 0, 0, 0, 0, ist), cfg.endOfDay(at))
	assert.Equal(t, DefaultCooldown, cfg.Cooldown)
}

func setupRedisThrottle(t *testing.T) (*miniredis.Miniredis, *RedisThrottle) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	mr.SetTime(testNow)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisThrottle(client, "", ThrottleConfig{Cooldown: 10 * time.Minute})
}

func TestRedisThrottle_Cooldown(t *testing.T) {
	ctx := context.Background()
	mr, th := setupRedisThrottle(t)

	blocked, err := th.Blocked(ctx, "c1", testNow)
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, th.RecordFire(ctx, "c1", testNow))
	assert.True(t, mr.Exists("mend:reflection:fired:c1"))

	blocked, err = th.Blocked(ctx, "c1", testNow)
	require.NoError(t, err)
	assert.True(t, blocked)

	mr.FastForward(11 * time.Minute)
	blocked, err = th.Blocked(ctx, "c1", testNow)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestRedisThrottle_SuppressDay(t *testing.T) {
	ctx := context.Background()
	mr, th := setupRedisThrottle(t)

	require.NoError(t, th.SuppressDay(ctx, "c1", testNow))
	assert.True(t, mr.Exists("mend:reflection:suppress:c1:2026-06-15"))

	blocked, err := th.Blocked(ctx, "c1", testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, blocked)

	blocked, err = th.Blocked(ctx, "c1", testNow.Add(24*time.Hour))
	require.NoError(t, err)
	assert.False(t, blocked)

	blocked, err = th.Blocked(ctx, "c2", testNow)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestRedisThrottle_Unavailable(t *testing.T) {
	mr, th := setupRedisThrottle(t)
	mr.SetError("LOADING")

	_, err := th.Blocked(context.Background(), "c1", testNow)
	assert.Error(t, err)
}
