package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

const (
	clientIdleTTL       = 3 * time.Minute
	clientSweepInterval = time.Minute
)

type rateClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientRegistry tracks one limiter per client IP. Entries idle past a TTL
// are swept so the map stays bounded by active clients, not by every
// address ever seen.
type clientRegistry struct {
	mu      sync.Mutex
	clients map[string]*rateClient
	rps     rate.Limit
	burst   int
}

func newClientRegistry(cfg RateLimitConfig) *clientRegistry {
	return &clientRegistry{
		clients: make(map[string]*rateClient),
		rps:     rate.Limit(cfg.RequestsPerSecond),
		burst:   cfg.Burst,
	}
}

func (r *clientRegistry) get(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	cl, exists := r.clients[ip]
	if !exists {
		cl = &rateClient{limiter: rate.NewLimiter(r.rps, r.burst)}
		r.clients[ip] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

func (r *clientRegistry) sweep(idleFor time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for ip, cl := range r.clients {
		if time.Since(cl.lastSeen) > idleFor {
			delete(r.clients, ip)
		}
	}
}

func (r *clientRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// RateLimit creates a per-IP rate limiting middleware with automatic
// cleanup of idle client entries. Prepare and load carry whole documents,
// so a misbehaving host could otherwise saturate the preparation pipeline.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	registry := newClientRegistry(cfg)

	go func() {
		for range time.Tick(clientSweepInterval) {
			registry.sweep(clientIdleTTL)
		}
	}()

	return func(c *gin.Context) {
		if !registry.get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
