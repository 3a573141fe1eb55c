package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter map; idle entries are pruned past it.
const maxTrackedClients = 4096

// ipRateLimiter keeps one token bucket per client IP.
type ipRateLimiter struct {
	mu     sync.Mutex
	limits map[string]*rate.Limiter
	r      rate.Limit
	b      int
}

// newIPRateLimiter allows perMinute requests per IP, bursting up to the same
// amount. A non-positive limit disables limiting.
func newIPRateLimiter(perMinute int) *ipRateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &ipRateLimiter{
		limits: make(map[string]*rate.Limiter),
		r:      rate.Every(time.Minute / time.Duration(perMinute)),
		b:      perMinute,
	}
}

func (l *ipRateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limits[ip]
	if ok {
		return limiter
	}
	if len(l.limits) >= maxTrackedClients {
		now := time.Now()
		for key, lim := range l.limits {
			if lim.TokensAt(now) >= float64(lim.Burst()) {
				delete(l.limits, key)
			}
		}
	}
	limiter = rate.NewLimiter(l.r, l.b)
	l.limits[ip] = limiter
	return limiter
}

func (l *ipRateLimiter) allow(ip string) bool {
	if l == nil {
		return true
	}
	return l.limiter(ip).Allow()
}

// Middleware answers 429 once a client exceeds its budget.
func (l *ipRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many requests"})
			return
		}
		c.Next()
	}
}
