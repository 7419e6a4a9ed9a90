package pattern

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mendapp/mend/internal/domain"
)

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	now := testNow
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := c.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, domain.PatternSnapshot{UserID: "user-1", SignalCount: 4}, time.Minute))
	got, err := c.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 4, got.SignalCount)

	now = now.Add(2 * time.Minute)
	_, err = c.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, domain.PatternSnapshot{UserID: "user-1"}, time.Minute))
	require.NoError(t, c.Delete(ctx, "user-1"))
	_, err = c.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisCache(client, "")
	ctx := context.Background()

	_, err = c.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	snap := domain.PatternSnapshot{
		UserID:         "user-1",
		AvgIntensity:   2.5,
		DominantThemes: []domain.Context{domain.ContextWork},
		BaselineState:  domain.BaselineElevated,
		SignalCount:    3,
		ComputedAt:     testNow,
	}
	require.NoError(t, c.Set(ctx, snap, 5*time.Minute))
	assert.True(t, mr.Exists("mend:snapshot:user-1"))

	got, err := c.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, snap.DominantThemes, got.DominantThemes)
	assert.True(t, snap.ComputedAt.Equal(got.ComputedAt))

	mr.FastForward(6 * time.Minute)
	_, err = c.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, snap, time.Minute))
	require.NoError(t, c.Delete(ctx, "user-1"))
	assert.False(t, mr.Exists("mend:snapshot:user-1"))
}

func TestRedisCache_ConnectionFailure(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	_, err = NewRedisCache(client, "p").Get(context.Background(), "user-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}
