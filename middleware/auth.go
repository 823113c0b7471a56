package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"nexusschedule/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const authCachePrefix = "auth:"

// JWTAuthMiddleware resolves the bearer token to a user identity and stores
// userID and role on the request context. The engine trusts the identity
// service that minted the token; only signature, expiry and revocation are
// checked here.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, role, err := utils.ExtractIdentityFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		if revoked(c.Request.Context(), tokenString) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Token revoked",
			})
			return
		}

		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	}
}

// revoked checks the auth cache for a revocation marker keyed by token hash.
// Cache unavailability degrades open with a warning; token signature and
// expiry were already verified.
func revoked(ctx context.Context, tokenString string) bool {
	authCache := utils.GetAuthCacheClient()
	if authCache == nil {
		zap.L().Warn("auth cache unavailable, skipping revocation check")
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	key := authCachePrefix + "revoked:" + utils.HashToken(tokenString)
	_, err := authCache.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		zap.L().Warn("revocation lookup failed, skipping", zap.Error(err))
		return false
	}
	return true
}

// RequireRole rejects requests whose authenticated role is not in the
// allowed set.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
		})
	}
}
