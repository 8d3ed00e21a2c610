package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps a token bucket per client IP. Idle clients are
// evicted so the map doesn't grow without bound.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	rps     rate.Limit
	burst   int
	ttl     time.Duration
}

func NewRateLimiter(rps, burst int) *RateLimiter {
	l := &RateLimiter{
		clients: make(map[string]*client),
		rps:     rate.Limit(rps),
		burst:   burst,
		ttl:     3 * time.Minute,
	}

	go l.evictIdle(time.Minute)

	return l
}

func (l *RateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.clients[ip]
	if !ok {
		v = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = v
	}
	v.lastSeen = time.Now()

	return v.limiter.Allow()
}

func (l *RateLimiter) evictIdle(interval time.Duration) {
	for {
		time.Sleep(interval)

		l.mu.Lock()
		for ip, v := range l.clients {
			if time.Since(v.lastSeen) > l.ttl {
				delete(l.clients, ip)
			}
		}
		l.mu.Unlock()
	}
}

func (l *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			return
		}

		c.Next()
	}
}
