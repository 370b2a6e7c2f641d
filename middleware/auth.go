package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	userRepo "venuebook/database/repository/user"
	"venuebook/models"
	"venuebook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const (
	principalKey    = "principal"
	authCachePrefix = "auth:"
	authCacheTTL    = 15 * time.Minute
)

// JWTAuthMiddleware authenticates the bearer token and attaches the resolved
// principal to the request context. Token issuance belongs to the identity
// collaborator; this only verifies and caches the principal lookup.
func JWTAuthMiddleware(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c)
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			abortUnauthorized(c)
			return
		}

		subject, role, err := utils.ExtractPrincipalFromToken(tokenString)
		if err != nil || subject == "" {
			abortUnauthorized(c)
			return
		}

		ctx := context.Background()
		cache := utils.GetAuthCacheClient()
		cacheKey := authCachePrefix + utils.HashToken(tokenString)

		if cachedRole, err := cache.Get(ctx, cacheKey).Result(); err == nil {
			setPrincipal(c, models.Principal{ID: subject, Role: cachedRole})
			return
		} else if err != redis.Nil {
			// Cache trouble falls back to the identity store.
			utils.GetLogger().Warn("auth cache read failed")
		}

		user, err := users.GetByID(ctx, subject)
		if err != nil {
			abortUnauthorized(c)
			return
		}
		effectiveRole := user.Role
		if effectiveRole == "" {
			effectiveRole = role
		}
		if err := cache.Set(ctx, cacheKey, effectiveRole, authCacheTTL).Err(); err != nil {
			utils.GetLogger().Warn("auth cache write failed")
		}

		setPrincipal(c, models.Principal{ID: subject, Role: effectiveRole})
	}
}

func setPrincipal(c *gin.Context, p models.Principal) {
	c.Set(principalKey, p)
	c.Next()
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.APIResponse{
		Success: false,
		Message: "Insufficient authorization",
	})
}

// PrincipalFrom returns the authenticated principal set by JWTAuthMiddleware.
func PrincipalFrom(c *gin.Context) models.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(models.Principal); ok {
			return p
		}
	}
	return models.Principal{}
}
