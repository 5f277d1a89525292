package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dimaboro-code/onAI/internal/metrics"
)

// Counter is the shared external counter store behind the rate limiter. The
// check-and-increment must be atomic in the store, not here.
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// RedisCounter backs the rate limiter with Redis.
type RedisCounter struct {
	client *redis.Client
}

// NewRedisCounter wraps a Redis client as a Counter.
func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (c *RedisCounter) Incr(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, key).Result()
}

func (c *RedisCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, key, ttl).Err()
}

// RateLimiter implements fixed-window rate limiting keyed by client IP.
type RateLimiter struct {
	counter Counter
	limit   int
	window  time.Duration
	logger  zerolog.Logger
}

// NewRateLimiter creates a rate limiter allowing limit requests per window.
func NewRateLimiter(counter Counter, limit int, window time.Duration, logger zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		limit:   limit,
		window:  window,
		logger:  logger,
	}
}

// Allow checks and increments the caller's counter for the current window.
// Returns (allowed, remaining, resetAt).
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowSecs := int64(rl.window.Seconds())
	bucket := time.Now().Unix() / windowSecs
	windowKey := fmt.Sprintf("ratelimit:%s:%d", key, bucket)

	count, err := rl.counter.Incr(ctx, windowKey)
	if err != nil {
		return false, 0, time.Time{}, err
	}
	if count == 1 {
		// First hit in this window owns the TTL.
		if err := rl.counter.Expire(ctx, windowKey, rl.window); err != nil {
			return false, 0, time.Time{}, err
		}
	}

	remaining := rl.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	resetAt := time.Unix((bucket+1)*windowSecs, 0)

	return count <= int64(rl.limit), remaining, resetAt, nil
}

// Middleware enforces the limit on every request passing through it.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := RealIP(r)

		allowed, remaining, resetAt, err := rl.Allow(r.Context(), "ip:"+ip)
		if err != nil {
			rl.logger.Error().Err(err).Msg("rate limit store unreachable")
			http.Error(w, `{"error":"rate limiter unavailable"}`, http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			metrics.RateLimitHits.Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(time.Until(resetAt).Seconds())))

			rl.logger.Warn().
				Str("ip", ip).
				Str("endpoint", r.URL.Path).
				Msg("rate limit exceeded")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate limit exceeded"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RealIP returns the client address with any port stripped. The chi RealIP
// middleware has already resolved forwarding headers by the time this runs.
func RealIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
