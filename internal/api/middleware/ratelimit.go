package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// DefaultStartRatePerMinute caps audit starts per user per minute.
	DefaultStartRatePerMinute = 5
	// DefaultStartRateBurst is the burst allowance above the sustained rate.
	DefaultStartRateBurst = 5
)

// PerUserLimiter rate-limits requests per authenticated user.
type PerUserLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewPerUserLimiter creates a limiter allowing perMinute requests per user
// with the given burst. Non-positive values fall back to the defaults.
func NewPerUserLimiter(perMinute, burst int) *PerUserLimiter {
	if perMinute <= 0 {
		perMinute = DefaultStartRatePerMinute
	}
	if burst <= 0 {
		burst = DefaultStartRateBurst
	}

	return &PerUserLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
}

// Middleware rejects requests above the per-user rate with 429. It must run
// after RequireAuth so the user id is on the context.
func (l *PerUserLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(UserID(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many audit requests"})
			return
		}

		c.Next()
	}
}

func (l *PerUserLimiter) allow(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[userID] = limiter
	}

	return limiter.Allow()
}
