package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hk-arcade-map/api-go/logger"
	"github.com/hk-arcade-map/api-go/models"
	"github.com/hk-arcade-map/api-go/utils"
	"gorm.io/gorm"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			c.Abort()
			return
		}

		userClaims, err := utils.ParseAccessToken(secret, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		utils.SetUser(c, userClaims)
		c.Next()
	}
}

// OptionalAuth attaches claims when a valid token is present and never rejects.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if userClaims, err := utils.ParseAccessToken(secret, token); err == nil {
				utils.SetUser(c, userClaims)
			}
		}
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware. The role is read from the
// database rather than the token, so a demotion or suspension applies before
// the token expires.
func RequireRole(db *gorm.DB, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := utils.GetUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		var current models.User
		err := db.WithContext(c.Request.Context()).Select("id", "role", "account_status").First(&current, user.UserID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		if err != nil {
			logger.Error().Err(err).Uint("user_id", user.UserID).Msg("role lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			c.Abort()
			return
		}
		if current.AccountStatus != "active" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is " + current.AccountStatus})
			c.Abort()
			return
		}

		for _, role := range roles {
			if current.Role == role {
				user.Role = current.Role
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		c.Abort()
	}
}
