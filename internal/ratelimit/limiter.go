package ratelimit

import (
	"context"
	"net/http"
	"time"

	"github.com/fixbench/fixbench/internal/clock"
	"github.com/fixbench/fixbench/internal/config"
	"github.com/fixbench/fixbench/internal/observability/metrics"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Payment recording is the only write that moves money, so it gets the
// tightest limit.
const (
	paymentRate  = 5.0
	paymentBurst = 10
)

type Params struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Clock   clock.Clock
	Metrics *metrics.Metrics `optional:"true"`
}

// Limiter guards selected endpoints. Redis-backed when configured, with an
// in-process fixed window otherwise.
type Limiter struct {
	log     *zap.Logger
	metrics *metrics.Metrics
	bucket  *TokenBucket
	memory  *memoryLimiter
}

func New(p Params) *Limiter {
	l := &Limiter{
		log:     p.Log.Named("ratelimit"),
		metrics: p.Metrics,
	}
	if p.Config.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     p.Config.RedisAddr,
			Password: p.Config.RedisPassword,
			DB:       p.Config.RedisDB,
		})
		l.bucket = NewTokenBucket(client)
	} else {
		l.memory = newMemoryLimiter(paymentBurst, time.Second, p.Clock.Now)
	}
	return l
}

var Module = fx.Module("ratelimit",
	fx.Provide(New),
)

func (l *Limiter) allow(ctx context.Context, key string) bool {
	if l.bucket != nil {
		result, err := l.bucket.Allow(ctx, key, paymentRate, paymentBurst)
		if err != nil {
			// Fail open: a redis outage must not block payments.
			l.log.Warn("rate limit check failed", zap.Error(err))
			return true
		}
		return result.Allowed
	}
	if l.memory != nil {
		return l.memory.Allow(key)
	}
	return true
}

// PaymentEndpoint limits payment recording per company and client address.
func (l *Limiter) PaymentEndpoint() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:payment:" + c.GetHeader("X-Company-ID") + ":" + c.ClientIP()
		if !l.allow(c.Request.Context(), key) {
			if l.metrics != nil {
				l.metrics.RecordRateLimitDenied(c.Request.Context(), "payment")
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate_limited",
			})
			return
		}
		c.Next()
	}
}
