package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/newwestevents/events-backend/config"
	"github.com/newwestevents/events-backend/internal/auth"
)

// AuthMiddleware verifies the bearer token, loads the account, and stores
// the Actor every domain service authorizes against.
func AuthMiddleware(cfg *config.Config, authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		tokenStr := parts[1]
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTAccessSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user_id missing in token"})
			return
		}

		userID := uint(userIDFloat)
		user, err := authSvc.GetUserByID(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		if user.Status != "active" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account is suspended"})
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)

		// The admin flag comes from the stored user row, not the token, so a
		// revoked admin loses access as soon as the row changes.
		c.Set("actor", auth.Actor{
			UserID:  user.ID,
			Email:   user.Email,
			Name:    user.Name,
			IsAdmin: user.IsAdmin,
		})

		c.Next()
	}
}

// GetActor retrieves the authenticated Actor from the gin context. The
// second result is false when the request was not authenticated.
func GetActor(c *gin.Context) (auth.Actor, bool) {
	actorVal, exists := c.Get("actor")
	if !exists {
		return auth.Actor{}, false
	}
	actor, ok := actorVal.(auth.Actor)
	return actor, ok
}

// MustActor aborts with 401 when no Actor is present.
func MustActor(c *gin.Context) (auth.Actor, bool) {
	actor, ok := GetActor(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return auth.Actor{}, false
	}
	return actor, true
}
