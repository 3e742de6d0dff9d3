package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/catalog-console/pkg/logger"
)

// RateLimiter limits requests per client IP with a Redis sliding window
type RateLimiter struct {
	redis       *redis.Client
	prefix      string
	maxRequests int
	window      time.Duration
	trusted     map[string]struct{} // proxies whose X-Forwarded-For is honoured
}

// NewRateLimiter returns nil when redisClient is nil; the login route is then unlimited.
// X-Forwarded-For is only read from requests whose peer is in trustedProxies.
func NewRateLimiter(redisClient *redis.Client, prefix string, maxRequests int, window time.Duration, trustedProxies []string) *RateLimiter {
	if redisClient == nil || maxRequests <= 0 {
		return nil
	}
	return &RateLimiter{
		redis:       redisClient,
		prefix:      prefix,
		maxRequests: maxRequests,
		window:      window,
		trusted:     trustedSet(trustedProxies),
	}
}

func trustedSet(proxies []string) map[string]struct{} {
	set := make(map[string]struct{}, len(proxies))
	for _, p := range proxies {
		if p = strings.TrimSpace(p); p != "" {
			set[p] = struct{}{}
		}
	}
	return set
}

// Middleware rejects requests above the limit with 429
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identifier := clientIP(r, rl.trusted)

		allowed, remaining, resetTime, err := rl.checkLimit(r.Context(), identifier)
		if err != nil {
			// fail open
			logger.Error(r.Context()).
				Err(err).
				Str("identifier", identifier).
				Msg("Rate limiter error")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			logger.Warn(r.Context()).
				Str("identifier", identifier).
				Int("limit", rl.maxRequests).
				Msg("Rate limit exceeded")

			retryAfter := int(time.Until(resetTime).Round(time.Second).Seconds())
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, "Too many login attempts. Please try again later.", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// checkLimit checks if request is within rate limit using sliding window
func (rl *RateLimiter) checkLimit(ctx context.Context, identifier string) (bool, int, time.Time, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", rl.prefix, identifier)
	now := time.Now()
	windowStart := now.Add(-rl.window)

	pipe := rl.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	pipe.Expire(ctx, key, rl.window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := countCmd.Val()
	remaining := rl.maxRequests - int(count) - 1
	if remaining < 0 {
		remaining = 0
	}

	return count < int64(rl.maxRequests), remaining, now.Add(rl.window), nil
}

// clientIP is the peer address. The first X-Forwarded-For hop replaces it
// only when the peer is a trusted proxy.
func clientIP(r *http.Request, trusted map[string]struct{}) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if _, ok := trusted[host]; !ok {
		return host
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	return host
}
