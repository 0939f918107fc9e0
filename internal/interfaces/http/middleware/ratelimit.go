package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/ratelimit"
	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
	"github.com/bagcheck-inc/bagcheck/internal/shared/utils"
)

// RateLimiter limits requests per client IP. Each named bucket has its own
// counters so a busy verify page cannot starve submissions.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, log logger.Interface) *RateLimiter {
	return &RateLimiter{limiter: limiter, logger: log}
}

// Limit enforces perMinute requests for bucket. A nil limiter or a
// non-positive limit disables the check.
func (rl *RateLimiter) Limit(bucket string, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.limiter == nil || perMinute <= 0 {
			c.Next()
			return
		}

		key := bucket + ":" + c.ClientIP()
		allowed, err := rl.limiter.Allow(c.Request.Context(), key, ratelimit.Limit{RequestsPerMinute: perMinute})
		if err != nil {
			// Redis outages must not block traffic.
			rl.logger.Warnw("rate limiter unavailable", "bucket", bucket, "error", err)
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponseWithError(c, errors.NewRateLimitedError("rate limit exceeded, please try again later"))
			c.Abort()
			return
		}

		c.Next()
	}
}
