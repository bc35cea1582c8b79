package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLimiter(t *testing.T) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLimiter(client), mr
}

func TestRedisLimiterBlocksAfterMax(t *testing.T) {
	limiter, _ := newRedisLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(ctx, "login:1.2.3.4", 3, time.Minute))
	}
	assert.False(t, limiter.Allow(ctx, "login:1.2.3.4", 3, time.Minute))
}

func TestRedisLimiterKeysAreIndependent(t *testing.T) {
	limiter, _ := newRedisLimiter(t)
	ctx := context.Background()

	require.True(t, limiter.Allow(ctx, "login:a", 1, time.Minute))
	assert.False(t, limiter.Allow(ctx, "login:a", 1, time.Minute))
	assert.True(t, limiter.Allow(ctx, "login:b", 1, time.Minute))
}

func TestRedisLimiterWindowResets(t *testing.T) {
	limiter, mr := newRedisLimiter(t)
	ctx := context.Background()

	require.True(t, limiter.Allow(ctx, "register:x", 1, time.Minute))
	require.False(t, limiter.Allow(ctx, "register:x", 1, time.Minute))

	mr.FastForward(2 * time.Minute)

	assert.True(t, limiter.Allow(ctx, "register:x", 1, time.Minute))
}

func TestRedisLimiterAllowsWhenRedisDown(t *testing.T) {
	limiter, mr := newRedisLimiter(t)
	mr.Close()

	// melhor esforço: sem Redis o serviço continua atendendo
	assert.True(t, limiter.Allow(context.Background(), "login:z", 1, time.Minute))
}

func TestLocalLimiterBlocksAfterBurst(t *testing.T) {
	limiter := NewLocalLimiter()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow(ctx, "ip:1", 5, time.Minute))
	}
	assert.False(t, limiter.Allow(ctx, "ip:1", 5, time.Minute))
	assert.True(t, limiter.Allow(ctx, "ip:2", 5, time.Minute))
}
