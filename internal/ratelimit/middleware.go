package ratelimit

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/pourrice/pourrice/pkg/errors"
)

type Middleware struct {
	limiter RateLimiter
}

func NewMiddleware(limiter RateLimiter) *Middleware {
	return &Middleware{
		limiter: limiter,
	}
}

// IPRateLimit middleware for general IP-based rate limiting
func (m *Middleware) IPRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := m.limiter.AllowIPRequest(c.Request.Context(), c.ClientIP())
		if err != nil {
			abort(c, http.StatusInternalServerError, "Failed to check rate limit", "INTERNAL_ERROR")
			return
		}

		if !allowed {
			abort(c, http.StatusTooManyRequests, apperrors.ErrRateLimitExceeded.Error(), "RATE_LIMIT")
			return
		}

		c.Next()
	}
}

// NearbyRateLimit applies the tighter per-IP budget for nearby lookups.
func (m *Middleware) NearbyRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := m.limiter.AllowNearby(c.Request.Context(), c.ClientIP())
		if err != nil {
			abort(c, http.StatusInternalServerError, "Failed to check rate limit", "INTERNAL_ERROR")
			return
		}

		if !allowed {
			abort(c, http.StatusTooManyRequests, fmt.Sprintf("%s for nearby lookups", apperrors.ErrRateLimitExceeded), "RATE_LIMIT")
			return
		}

		c.Next()
	}
}

func abort(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"message": message,
			"code":    code,
		},
	})
}
