package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Payphone-Digital/leadgen/internal/constants"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter is a sliding window limiter keyed by client
type RateLimiter struct {
	tokens     map[string][]time.Time
	maxRequest int
	duration   time.Duration
	mu         sync.Mutex
}

func NewRateLimiter(maxRequest int, duration time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:     make(map[string][]time.Time),
		maxRequest: maxRequest,
		duration:   duration,
	}
}

func (rl *RateLimiter) cleanup(now time.Time) {
	for key, tokens := range rl.tokens {
		var valid []time.Time
		for _, t := range tokens {
			if now.Sub(t) <= rl.duration {
				valid = append(valid, t)
			}
		}
		if len(valid) > 0 {
			rl.tokens[key] = valid
		} else {
			delete(rl.tokens, key)
		}
	}
}

// Allow records a hit for key and reports the remaining budget
func (rl *RateLimiter) Allow(key string, now time.Time) (int, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanup(now)

	tokens := rl.tokens[key]
	if len(tokens) >= rl.maxRequest {
		return 0, false
	}
	rl.tokens[key] = append(tokens, now)
	return rl.maxRequest - len(tokens) - 1, true
}

// RateLimit limits requests per client IP. A non-positive maxRequest disables it.
func RateLimit(maxRequest int, duration time.Duration) gin.HandlerFunc {
	if maxRequest <= 0 || duration <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := NewRateLimiter(maxRequest, duration)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		remaining, ok := limiter.Allow(ip, now)
		if !ok {
			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("max_requests", maxRequest),
				zap.Duration("duration", duration),
			)

			c.Header("Retry-After", strconv.Itoa(int(duration.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				constants.BuildErrorResponse("Rate limit exceeded", gin.H{"retry_after": duration.Seconds()}))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequest))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(now.Add(duration).Unix(), 10))

		c.Next()
	}
}
