package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hk-arcade-map/api-go/models"
	"github.com/hk-arcade-map/api-go/types"
	"github.com/hk-arcade-map/api-go/utils"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

type UserStats struct {
	Photos           int64 `json:"photos"`
	CheckIns         int64 `json:"checkIns"`
	ApprovedComments int64 `json:"approvedComments"`
}

// GetUserProfile returns the public view of a user: no email, no provider.
func (uc *UserController) GetUserProfile(c *gin.Context) {
	id := utils.ParseUintParam(c.Param("id"))
	var user models.User
	if err := uc.DB.Where("account_status = ?", "active").First(&user, id).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	var stats UserStats
	for _, count := range []struct {
		query *gorm.DB
		dst   *int64
	}{
		{uc.DB.Model(&models.Photo{}).Where("user_id = ?", user.ID), &stats.Photos},
		{uc.DB.Model(&models.CheckIn{}).Where("user_id = ?", user.ID), &stats.CheckIns},
		{uc.DB.Model(&models.Comment{}).Where("user_id = ? AND status = ?", user.ID, models.CommentApproved), &stats.ApprovedComments},
	} {
		if err := count.query.Count(count.dst).Error; err != nil {
			handleServiceError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"id":            user.ID,
			"username":      user.Username,
			"displayName":   user.DisplayName,
			"bio":           user.Bio,
			"avatar":        user.Avatar,
			"role":          user.Role,
			"points":        user.Points,
			"level":         user.Level,
			"levelProgress": types.GetLevelProgress(user.Points),
			"stats":         stats,
			"joinedAt":      user.CreatedAt,
		},
	})
}
