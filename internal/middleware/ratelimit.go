package middleware

import (
	"net/http"
	"sync"
	"time"

	"devsprint/backend/internal/config"
	"devsprint/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Stale client entries are swept lazily while serving requests, so no
// background goroutine is needed.
const (
	clientTTL     = 10 * time.Minute
	sweepInterval = 5 * time.Minute
)

type client struct {
	limiter *rate.Limiter
	seen    time.Time
}

// RateLimiter throttles requests per client IP. It guards the login endpoint,
// where each attempt costs a bcrypt comparison; limits come from the
// rate_limit config section.
type RateLimiter struct {
	cfg config.RateLimitConfig

	mu        sync.Mutex
	clients   map[string]*client
	nextSweep time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		cfg:       cfg,
		clients:   make(map[string]*client),
		nextSweep: time.Now().Add(sweepInterval),
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.After(rl.nextSweep) {
		for addr, c := range rl.clients {
			if now.Sub(c.seen) > clientTTL {
				delete(rl.clients, addr)
			}
		}
		rl.nextSweep = now.Add(sweepInterval)
	}

	c, ok := rl.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RPS), rl.cfg.Burst)}
		rl.clients[ip] = c
	}
	c.seen = now
	return c.limiter.Allow()
}

// Middleware rejects requests from clients that exhausted their budget.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, response.Response{
				Code:    http.StatusTooManyRequests,
				Message: "too many attempts, try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimit builds the limiter middleware from config in one call.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	return NewRateLimiter(cfg).Middleware()
}
