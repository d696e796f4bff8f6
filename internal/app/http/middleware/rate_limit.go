package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Limiter decides whether a keyed request may proceed. The in-process
// implementation below does not survive horizontal scaling; a
// multi-process deployment injects one backed by a shared expiring
// store instead.
type Limiter interface {
	Allow(key string) bool
}

type windowCounter struct {
	count       int
	windowStart time.Time
}

// MemoryLimiter allows at most max requests per key per window.
type MemoryLimiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	entries map[string]*windowCounter
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:     max,
		window:  window,
		entries: map[string]*windowCounter{},
	}
}

func (l *MemoryLimiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || now.Sub(e.windowStart) >= l.window {
		// Expired windows are dropped lazily on their next hit.
		l.entries[key] = &windowCounter{count: 1, windowStart: now}
		return true
	}
	if e.count >= l.max {
		return false
	}
	e.count++
	return true
}

// RateLimit rejects requests over the limit with 429. The key is the
// authenticated account when present, the client IP otherwise.
func RateLimit(l Limiter, retryAfter time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID := c.GetUint("user_id"); userID != 0 {
			key = "user:" + strconv.FormatUint(uint64(userID), 10)
		}
		if !l.Allow(key) {
			c.Header("Retry-After", strconv.FormatInt(int64(retryAfter.Seconds()), 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests", "code": "rate_limited"})
			return
		}
		c.Next()
	}
}
