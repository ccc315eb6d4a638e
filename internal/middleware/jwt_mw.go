package middleware

import (
	"context"
	"net/http"
	"strings"

	"store_rating/internal/logger"
	"store_rating/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey = "authUser"
	AuthRoleKey = "authRole"
)

// LivenessChecker reports whether an account is still active
type LivenessChecker interface {
	IsActive(ctx context.Context, userID int) (bool, error)
}

// JWTAuthMiddleware creates a middleware for JWT authentication. The role is
// taken from the token as issued. When liveness is non-nil, tokens of
// deactivated accounts are rejected as well.
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil, liveness LivenessChecker, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access token required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid authorization header format"})
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		if liveness != nil {
			active, err := liveness.IsActive(c.Request.Context(), claims.UserID)
			if err != nil {
				log.Error("liveness check failed", "user_id", claims.UserID, "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
				return
			}
			if !active {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
				return
			}
		}

		// Set user information in context
		c.Set(AuthUserKey, claims.UserID)
		c.Set(AuthRoleKey, claims.Role)

		c.Next()
	}
}
