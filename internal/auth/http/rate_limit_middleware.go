package http

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	authDomain "github.com/allisson/credstore/internal/auth/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
	"github.com/allisson/credstore/internal/httputil"
)

const (
	limiterIdleTTL       = time.Hour
	limiterSweepInterval = 5 * time.Minute
)

type actorLimiter struct {
	*rate.Limiter
	seen time.Time
}

// actorLimiters hands out one token bucket per actor.
type actorLimiters struct {
	mu      sync.Mutex
	buckets map[string]*actorLimiter
	limit   rate.Limit
	burst   int
}

func newActorLimiters(rps float64, burst int) *actorLimiters {
	return &actorLimiters{
		buckets: make(map[string]*actorLimiter),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

func (l *actorLimiters) get(actor string, now time.Time) *actorLimiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[actor]
	if !ok {
		b = &actorLimiter{Limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[actor] = b
	}
	b.seen = now
	return b
}

// sweep forgets actors idle since before cutoff and returns how many were dropped.
func (l *actorLimiters) sweep(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	dropped := 0
	for actor, b := range l.buckets {
		if b.seen.Before(cutoff) {
			delete(l.buckets, actor)
			dropped++
		}
	}
	return dropped
}

func (l *actorLimiters) sweepEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.sweep(now.Add(-limiterIdleTTL))
		}
	}
}

// RateLimitMiddleware applies a per-actor token bucket and answers 429 with
// Retry-After once it is exhausted. It must run after AuthenticationMiddleware.
// Idle buckets are swept until ctx is done.
func RateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	limiters := newActorLimiters(rps, burst)
	go limiters.sweepEvery(ctx, limiterSweepInterval)

	return func(c *gin.Context) {
		actor, ok := authDomain.ActorFromContext(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		now := time.Now()
		limiter := limiters.get(actor, now)
		if limiter.AllowN(now, 1) {
			c.Next()
			return
		}

		r := limiter.ReserveN(now, 1)
		wait := r.DelayFrom(now)
		r.CancelAt(now)
		retryAfter := int(math.Ceil(wait.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}

		logger.Debug("rate limited", slog.String("actor", actor), slog.Int("retry_after", retryAfter))
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.ErrorResponse{
			Error:   "rate_limit_exceeded",
			Message: "Too many requests, retry after the delay in Retry-After",
		})
	}
}
