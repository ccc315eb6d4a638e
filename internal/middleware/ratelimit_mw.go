package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Limiter decides whether another request for key is allowed
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimit rejects requests over the limiter's quota, keyed by scope and client IP.
// A nil limiter disables limiting.
func RateLimit(limiter Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		if !limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests, please try again later"})
			return
		}
		c.Next()
	}
}
