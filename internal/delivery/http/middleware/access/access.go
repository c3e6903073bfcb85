package http_access_middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/humanbelnik/moviemingle/internal/config"
	http_common "github.com/humanbelnik/moviemingle/internal/delivery/http/common"
	"golang.org/x/time/rate"
)

const (
	sweepInterval = time.Minute
	idleTimeout   = 3 * time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter throttles requests per client IP with a token bucket each.
type Limiter struct {
	cfg config.Limiter

	mu      sync.Mutex
	clients map[string]*client
}

// New starts a limiter. Idle clients are forgotten until ctx is done.
func New(ctx context.Context, cfg config.Limiter) *Limiter {
	l := &Limiter{
		cfg:     cfg,
		clients: make(map[string]*client),
	}
	if cfg.Enabled {
		go l.sweep(ctx)
	}
	return l
}

func (l *Limiter) RateLimited() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !l.cfg.Enabled {
			ctx.Next()
			return
		}

		if !l.allow(ctx.ClientIP()) {
			ctx.Header("Retry-After", "1")
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, http_common.ErrorResponse{
				Error: "rate limit exceeded",
			})
			return
		}
		ctx.Next()
	}
}

func (l *Limiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(l.cfg.RPS), l.cfg.Burst)}
		l.clients[ip] = c
	}
	c.lastSeen = time.Now()

	return c.limiter.Allow()
}

func (l *Limiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			for ip, c := range l.clients {
				if time.Since(c.lastSeen) > idleTimeout {
					delete(l.clients, ip)
				}
			}
			l.mu.Unlock()
		}
	}
}
