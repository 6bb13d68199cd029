// Package ratelimit implements per-client fixed-window request limits kept
// in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/wishsync/internal/logging"
)

const keyPrefix = "wishsync:rl"

type cmdable interface {
	Incr(context.Context, string) *redis.IntCmd
	Expire(context.Context, string, time.Duration) *redis.BoolCmd
}

// Limiter counts requests per key in fixed windows.
type Limiter struct {
	store  cmdable
	limit  int64
	window time.Duration
	now    func() time.Time
}

// New returns a Limiter admitting limit requests per window.
func New(store cmdable, limit int, window time.Duration) *Limiter {
	return &Limiter{store: store, limit: int64(limit), window: window, now: time.Now}
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return c, nil
}

func (l *Limiter) enabled() bool {
	return l != nil && l.store != nil && l.limit > 0 && l.window > 0
}

// Allow counts one request for key and reports whether it is within the
// limit, together with the time left in the current window.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if !l.enabled() {
		return true, 0, nil
	}

	bucket := l.now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s:%s:%d", keyPrefix, key, bucket)

	count, err := l.incrWithTTL(ctx, redisKey)
	if err != nil {
		return false, 0, err
	}

	retry := time.Duration((bucket+1)*int64(l.window) - l.now().UnixNano())
	return count <= l.limit, retry, nil
}

func (l *Limiter) incrWithTTL(ctx context.Context, key string) (int64, error) {
	count, err := l.store.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := l.store.Expire(ctx, key, l.window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// Middleware rejects clients over the limit with 429 and a Retry-After
// header. Redis failures let the request through.
func Middleware(l *Limiter, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !l.enabled() {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := clientIP(r)

			ok, retry, err := l.Allow(ctx, ip)
			if err != nil {
				logger.Warn(ctx, "rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				logger.Warn(ctx, "rate limit exceeded", "ip", ip, "path", r.URL.Path)
				secs := int(retry.Seconds())
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers proxy headers over the socket address. chi's RealIP
// middleware usually has rewritten RemoteAddr already.
func clientIP(r *http.Request) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
