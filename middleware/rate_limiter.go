package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// limiterIdleTTL is how long an unused limiter is kept.
	limiterIdleTTL = 10 * time.Minute
	sweepInterval  = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds a map of IP addresses to their rate limiters.
type rateLimiterStore struct {
	visitors  map[string]*visitor
	perMin    int
	lastSweep time.Time
	now       func() time.Time
	mu        sync.Mutex
}

func newRateLimiterStore(perMin int, now func() time.Time) *rateLimiterStore {
	return &rateLimiterStore{visitors: make(map[string]*visitor), perMin: perMin, now: now, lastSweep: now()}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= sweepInterval {
		s.sweep(now)
	}

	v, exists := s.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)}
		s.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep drops limiters idle for longer than limiterIdleTTL. Caller holds mu.
func (s *rateLimiterStore) sweep(now time.Time) {
	for ip, v := range s.visitors {
		if now.Sub(v.lastSeen) > limiterIdleTTL {
			delete(s.visitors, ip)
		}
	}
	s.lastSweep = now
}

func (s *rateLimiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// RateLimitMiddleware limits requests per client IP to perMin a minute.
func RateLimitMiddleware(perMin int, logger *zap.Logger) gin.HandlerFunc {
	return rateLimit(perMin, time.Now, logger).handler
}

type rateLimiter struct {
	store  *rateLimiterStore
	logger *zap.Logger
}

func rateLimit(perMin int, now func() time.Time, logger *zap.Logger) *rateLimiter {
	if perMin <= 0 {
		perMin = 120
	}
	return &rateLimiter{store: newRateLimiterStore(perMin, now), logger: logger}
}

func (l *rateLimiter) handler(c *gin.Context) {
	ip := getClientIP(c)
	if !l.store.getLimiter(ip).Allow() {
		l.logger.Warn("Rate limit exceeded", zap.String("ip", ip))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
		return
	}
	c.Next()
}
