package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/klarnacheckout/internal/shared/biztime"
	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
	"github.com/orris-inc/klarnacheckout/internal/shared/utils"
)

// RateLimiter provides Redis-backed IP rate limiting using a fixed-window counter.
// Each IP gets a counter key with TTL equal to the window duration, so all
// instances sharing Redis share the budget.
type RateLimiter struct {
	redisClient *redis.Client
	name        string
	limit       int
	window      time.Duration
	logger      logger.Interface
}

// NewRateLimiter creates a limiter allowing limit requests per window. name
// separates the counters of different endpoints.
func NewRateLimiter(redisClient *redis.Client, name string, limit int, window time.Duration, log logger.Interface) *RateLimiter {
	if window < time.Second {
		window = time.Second
	}
	return &RateLimiter{
		redisClient: redisClient,
		name:        name,
		limit:       limit,
		window:      window,
		logger:      log,
	}
}

// Limit returns a Gin middleware that enforces the rate limit per client IP.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		windowBucket := biztime.NowUTC().Unix() / int64(rl.window.Seconds())
		key := fmt.Sprintf("ratelimit:%s:%s:%d", rl.name, c.ClientIP(), windowBucket)

		ctx := c.Request.Context()

		count, err := rl.redisClient.Incr(ctx, key).Result()
		if err != nil {
			// Redis unavailable: fail open.
			rl.logger.Warnw("rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		if count == 1 {
			rl.redisClient.Expire(ctx, key, rl.window+time.Second)
		}

		if count > int64(rl.limit) {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
