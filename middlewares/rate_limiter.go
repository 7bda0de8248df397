package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipLimiter hands out one token-bucket limiter per client IP.
type ipLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit
	burst    int
}

func newIPLimiter(r rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		burst:    burst,
	}
}

func (il *ipLimiter) get(ip string) *rate.Limiter {
	il.mu.Lock()
	defer il.mu.Unlock()

	limiter, exists := il.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(il.r, il.burst)
		il.limiters[ip] = limiter
	}
	return limiter
}

// RateLimiter limits each IP to `requests` per second with the same burst.
func RateLimiter(requests int) gin.HandlerFunc {
	limiter := newIPLimiter(rate.Limit(requests), requests)

	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}

// StrictRateLimiter for login/register: 5 attempts per minute per IP.
func StrictRateLimiter() gin.HandlerFunc {
	limiter := newIPLimiter(rate.Every(time.Minute/5), 5)

	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"status":  false,
				"message": "Too many attempts, please wait a moment",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
