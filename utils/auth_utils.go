package utils

import (
	"github.com/gin-gonic/gin"
)

// UserClaims is the caller identity the auth middleware attaches to a request.
type UserClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
}

// IsModerator covers both moderators and admins.
func (u *UserClaims) IsModerator() bool {
	return u != nil && (u.Role == "moderator" || u.Role == "admin")
}

const userContextKey = "user"

// SetUser attaches the caller to the request context.
func SetUser(c *gin.Context, claims *UserClaims) {
	c.Set(userContextKey, claims)
}

// GetUser returns the caller, or nil on an anonymous request.
func GetUser(c *gin.Context) *UserClaims {
	claims, _ := c.Value(userContextKey).(*UserClaims)
	return claims
}
