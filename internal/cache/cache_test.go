package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/estate-agency/internal/config"
)

type featured struct {
	Titles []string `json:"titles"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ttls := TTLsFromConfig(config.CacheConfig{HomepageTTLSeconds: 300, PromoTTLSeconds: 120, StatsTTLSeconds: 60})
	return NewRedisCache(client, "estate", ttls), srv
}

func TestRedisCacheRoundTripWithTTL(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestCache(t)

	var miss featured
	hit, err := c.Get(ctx, KeyHomeFeatured, &miss)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, KeyHomeFeatured, featured{Titles: []string{"Loft"}}))
	assert.Equal(t, 300*time.Second, srv.TTL("estate:home:featured"))

	var got featured
	hit, err = c.Get(ctx, KeyHomeFeatured, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"Loft"}, got.Titles)

	srv.FastForward(301 * time.Second)
	hit, err = c.Get(ctx, KeyHomeFeatured, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCacheDelete(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestCache(t)
	require.NoError(t, c.Set(ctx, KeyPromoList, []string{"SPRING"}))
	require.NoError(t, c.Set(ctx, KeyStatsOverview, map[string]int{"total": 1}))

	require.NoError(t, c.Delete(ctx, KeyPromoList, KeyStatsOverview))
	assert.False(t, srv.Exists("estate:promo:list"))
	assert.False(t, srv.Exists("estate:stats:overview"))
}

func TestRememberLoadsOnceUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	logger := zap.NewNop()
	calls := 0
	load := func(context.Context) (featured, error) {
		calls++
		return featured{Titles: []string{"Cottage"}}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Remember(ctx, c, logger, KeyHomeFeatured, load)
		require.NoError(t, err)
		assert.Equal(t, []string{"Cottage"}, got.Titles)
	}
	assert.Equal(t, 1, calls)

	Invalidate(ctx, c, logger, KeyHomeFeatured)
	_, err := Remember(ctx, c, logger, KeyHomeFeatured, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRememberFallsThroughWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	c := NewRedisCache(client, "estate", TTLs{})

	got, err := Remember(ctx, c, zap.NewNop(), KeyStatsOverview, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestRememberPropagatesLoadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Remember(context.Background(), Nop{}, zap.NewNop(), KeyPromoList, func(context.Context) ([]string, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}
