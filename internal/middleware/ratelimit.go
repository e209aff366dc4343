package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig holds the per-user limits for mutating endpoints.
type RateLimiterConfig struct {
	Rate            rate.Limit    // tokens per second
	Burst           int           // bucket size
	CleanupInterval time.Duration // how often idle users are forgotten
}

// PerMinute returns a config allowing perMinute requests per user per minute,
// all of which may arrive as one burst.
func PerMinute(perMinute int) RateLimiterConfig {
	return RateLimiterConfig{
		Rate:            rate.Limit(float64(perMinute) / 60.0),
		Burst:           perMinute,
		CleanupInterval: 5 * time.Minute,
	}
}

type userLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter keeps one token bucket per session user.
type RateLimiter struct {
	config RateLimiterConfig

	mu       sync.Mutex
	limiters map[string]*userLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a RateLimiter and starts its background cleanup.
// Call Stop to end it.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:   config,
		limiters: make(map[string]*userLimiter),
		stopCh:   make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Middleware rejects requests beyond the caller's budget with 429 and a
// Retry-After header. It must run after RequireSession.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := SessionFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
				return
			}
			if !rl.limiter(s.UserID).Allow() {
				slog.WarnContext(r.Context(), "rate limit exceeded", slog.String("user_id", s.UserID))
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(rl.config.Rate)))
				writeError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests, try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LimiterCount reports how many users currently have a bucket.
func (rl *RateLimiter) LimiterCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) limiter(userID string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	ul, ok := rl.limiters[userID]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(rl.config.Rate, rl.config.Burst)}
		rl.limiters[userID] = ul
	}
	ul.lastAccess = time.Now()
	return ul.limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup forgets users idle for more than two cleanup intervals.
func (rl *RateLimiter) cleanup(now time.Time) {
	ttl := rl.config.CleanupInterval * 2
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for id, ul := range rl.limiters {
		if now.Sub(ul.lastAccess) > ttl {
			delete(rl.limiters, id)
		}
	}
}

// retryAfterSeconds estimates how long until one token is back.
func retryAfterSeconds(r rate.Limit) int {
	if r <= 0 {
		return 60
	}
	return max(1, int(math.Ceil(1.0/float64(r))))
}
