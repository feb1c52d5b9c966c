package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nmqueue/internal/infrastructure/ratelimit"
	"nmqueue/internal/shared/logger"
	"nmqueue/internal/shared/utils"
)

// RateLimiter throttles the anonymous public endpoints (registration and
// confirmation) per client IP. Authenticated traffic is not limited.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	config  ratelimit.RateLimitConfig
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, config ratelimit.RateLimitConfig, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		config:  config,
		logger:  logger,
	}
}

func (r *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()

		allowed, err := r.limiter.Allow(key, r.config)
		if err != nil {
			// Fail open: a limiter outage must not take the public form down.
			r.logger.Warnw("rate limiter unavailable", "key", key, "error", err)
			c.Next()
			return
		}
		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "too many requests, try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
