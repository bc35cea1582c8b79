package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Limiter responde se um identificador ainda tem requisições disponíveis
// dentro da janela.
type Limiter interface {
	Allow(ctx context.Context, key string, max int, window time.Duration) bool
}

// RedisLimiter implementa janela fixa com INCR + EXPIRE. O contador vive no
// Redis, então o limite vale para todas as instâncias do servidor.
type RedisLimiter struct {
	client *redis.Client
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, max int, window time.Duration) bool {
	count, err := l.client.Incr(ctx, "ratelimit:"+key).Result()
	if err != nil {
		// Redis fora do ar não derruba o serviço, apenas o limite.
		logrus.WithError(err).Warn("rate limit indisponível, liberando requisição")
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, "ratelimit:"+key, window).Err(); err != nil {
			logrus.WithError(err).Warn("falha ao definir TTL do rate limit")
		}
	}
	return count <= int64(max)
}

// LocalLimiter é o fallback em memória para quando o Redis não está
// configurado. Não é consistente entre instâncias e zera no restart.
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewLocalLimiter() *LocalLimiter {
	return &LocalLimiter{limiters: make(map[string]*rate.Limiter)}
}

func (l *LocalLimiter) Allow(ctx context.Context, key string, max int, window time.Duration) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(max)/window.Seconds()), max)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}
