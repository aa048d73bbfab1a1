package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"github.com/mohamedousama/Scola-System/internal/service" // Actor identity
	"github.com/mohamedousama/Scola-System/internal/utils"   // JWT and cache utilities

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// Context keys set by the auth middleware
const (
	ctxUserID   = "userID"   // Authenticated user ID
	ctxUsername = "username" // Authenticated username
	ctxRole     = "role"     // Authenticated role
	ctxToken    = "token"    // Raw bearer token, needed for /logout revocation
)

// JWTAuthMiddleware validates bearer tokens, rejects revoked ones and stores
// the authenticated identity in the request context
func JWTAuthMiddleware(secret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string and parse it
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		// Reject tokens revoked by /logout. The check degrades open when Redis
		// is unavailable, same as the response caches.
		if revoked, err := utils.IsTokenRevoked(c.Request.Context(), rdb, tokenStr); err == nil && revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session has been logged out"})
			return
		}
		c.Set(ctxUserID, claims.UserID)     // Store user ID in context
		c.Set(ctxUsername, claims.Username) // Store username in context
		c.Set(ctxRole, claims.Role)         // Store role in context
		c.Set(ctxToken, tokenStr)           // Store raw token for revocation
		c.Next()                            // Proceed to the next handler
	}
}

// ActorFromContext rebuilds the request-scoped identity stored by
// JWTAuthMiddleware. The bool result is false when no identity is present.
func ActorFromContext(c *gin.Context) (service.Actor, bool) {
	userID, ok := c.Get(ctxUserID)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{
		UserID:   userID.(uint),
		Username: c.GetString(ctxUsername),
		Role:     c.GetString(ctxRole),
	}, true
}

// TokenFromContext returns the raw bearer token stored by JWTAuthMiddleware
func TokenFromContext(c *gin.Context) (string, bool) {
	token, ok := c.Get(ctxToken)
	if !ok {
		return "", false
	}
	return token.(string), true
}
