package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type rateWindow struct {
	count    int
	windowAt time.Time
}

// RateLimiter is a per-client fixed-window counter. Entries reset when
// their window elapses; state is in-process, which is enough for a
// single-instance deployment.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateWindow
	window  time.Duration
	max     int
	now     func() time.Time
}

func NewRateLimiter(window time.Duration, max int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*rateWindow),
		window:  window,
		max:     max,
		now:     time.Now,
	}
}

func (l *RateLimiter) Allow(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.clients[clientID]
	if !ok || now.Sub(entry.windowAt) >= l.window {
		l.clients[clientID] = &rateWindow{count: 1, windowAt: now}
		return true
	}

	entry.count++
	return entry.count <= l.max
}

func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests from this IP, please try again later",
			})
			return
		}
		c.Next()
	}
}
