package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hk-arcade-map/api-go/models"
	"gorm.io/gorm"
)

// ValidationController backs the sign-up form's availability checks.
type ValidationController struct {
	DB *gorm.DB
}

func NewValidationController(db *gorm.DB) *ValidationController {
	return &ValidationController{DB: db}
}

// ValidateUsername reports whether a username is taken. A malformed or
// reserved name is returned as unavailable with the reason.
func (vc *ValidationController) ValidateUsername(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))
	if err := validateUsernamePattern(username); err != nil {
		c.JSON(http.StatusOK, gin.H{"exists": false, "available": false, "reason": err.Error()})
		return
	}
	vc.respondExists(c, "username = ?", username)
}

func (vc *ValidationController) ValidateEmail(c *gin.Context) {
	vc.respondExists(c, "email = ?", strings.ToLower(strings.TrimSpace(c.Param("email"))))
}

func (vc *ValidationController) respondExists(c *gin.Context, where string, value string) {
	var count int64
	// soft-deleted accounts still hold their unique username and email
	if err := vc.DB.Unscoped().Model(&models.User{}).Where(where, value).Count(&count).Error; err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to check availability")
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": count > 0, "available": count == 0})
}
