package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"proofdeck-backend/internal/models"
)

// Limit is a fixed-window rate limit.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Per-endpoint limits. Customer-facing endpoints are tighter than staff ones.
var (
	LimitLogin          = Limit{Requests: 5, Window: 15 * time.Minute}
	LimitCustomerSubmit = Limit{Requests: 10, Window: time.Minute}
	LimitUpload         = Limit{Requests: 10, Window: time.Minute}
	LimitAdmin          = Limit{Requests: 60, Window: time.Minute}
	LimitPortalView     = Limit{Requests: 30, Window: time.Minute}
)

type window struct {
	count   int
	resetAt time.Time
}

// RateLimiter is an in-memory fixed-window limiter keyed by endpoint and
// client IP. State is per-process; a multi-instance deployment rate limits
// per instance.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		now := rl.now()
		for key, w := range rl.windows {
			if now.After(w.resetAt) {
				delete(rl.windows, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow records one request against the key and reports whether it is within
// the limit, along with the seconds until the window resets.
func (rl *RateLimiter) Allow(key string, limit Limit) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || now.After(w.resetAt) {
		rl.windows[key] = &window{count: 1, resetAt: now.Add(limit.Window)}
		return true, int(limit.Window.Seconds())
	}

	retryAfter := int(w.resetAt.Sub(now).Seconds()) + 1
	if w.count >= limit.Requests {
		return false, retryAfter
	}
	w.count++
	return true, retryAfter
}

// ClientIP resolves the caller's address, preferring proxy headers.
func ClientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if real := c.GetHeader("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}

// RateLimit enforces the given limit for the named endpoint.
func RateLimit(rl *RateLimiter, endpoint string, limit Limit) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := endpoint + ":" + ClientIP(c)
		allowed, retryAfter := rl.Allow(key, limit)
		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "rate_limited",
				Message: "Too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}
