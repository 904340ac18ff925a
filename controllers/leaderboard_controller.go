package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hk-arcade-map/api-go/models"
	"github.com/hk-arcade-map/api-go/utils"
	"gorm.io/gorm"
)

type LeaderboardController struct {
	DB *gorm.DB
}

type LeaderboardQuery struct {
	TimeFilter string `form:"timeFilter" binding:"omitempty,oneof=all_time weekly monthly"`
	Page       int    `form:"page,default=1" binding:"min=1"`
	PageSize   int    `form:"pageSize,default=10" binding:"min=1,max=50"`
}

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      uint   `json:"userId"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
	Level       int    `json:"level"`
	Points      int64  `json:"points"`
}

func NewLeaderboardController(db *gorm.DB) *LeaderboardController {
	return &LeaderboardController{DB: db}
}

// windowStart returns the start of the current week (Sunday) or month in
// local time, or the zero time for all_time.
func windowStart(filter string, now time.Time) time.Time {
	switch filter {
	case "weekly":
		d := now.AddDate(0, 0, -int(now.Weekday()))
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	case "monthly":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	return time.Time{}
}

// GetLeaderboard ranks active users by lifetime points, or by points earned
// inside the week or month from the point log.
func (lc *LeaderboardController) GetLeaderboard(c *gin.Context) {
	var query LeaderboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if query.TimeFilter == "" {
		query.TimeFilter = "all_time"
	}

	var total int64
	if err := lc.DB.Model(&models.User{}).Where("account_status = ?", "active").Count(&total).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	base := lc.DB.Table("users").Where("users.deleted_at IS NULL AND users.account_status = ?", "active")
	since := windowStart(query.TimeFilter, time.Now())
	if since.IsZero() {
		base = base.Select("users.id AS user_id, users.username, users.display_name, users.avatar, users.level, users.points")
	} else {
		base = base.
			Select("users.id AS user_id, users.username, users.display_name, users.avatar, users.level, COALESCE(SUM(point_logs.points), 0) AS points").
			Joins("LEFT JOIN point_logs ON point_logs.user_id = users.id AND point_logs.created_at >= ?", since).
			Group("users.id, users.username, users.display_name, users.avatar, users.level")
	}

	offset := (query.Page - 1) * query.PageSize
	var entries []LeaderboardEntry
	if err := base.Order("points DESC, users.id ASC").Limit(query.PageSize).Offset(offset).Scan(&entries).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	for i := range entries {
		entries[i].Rank = offset + i + 1
	}

	meta := gin.H{"timeFilter": query.TimeFilter}
	if user := utils.GetUser(c); user != nil && since.IsZero() {
		var me models.User
		err := lc.DB.First(&me, user.UserID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			handleServiceError(c, err)
			return
		}
		if err == nil {
			var ahead int64
			if err := lc.DB.Model(&models.User{}).
				Where("account_status = ? AND (points > ? OR (points = ? AND id < ?))", "active", me.Points, me.Points, me.ID).
				Count(&ahead).Error; err != nil {
				handleServiceError(c, err)
				return
			}
			meta["myRank"] = ahead + 1
			meta["myPoints"] = me.Points
		}
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       entries,
		Meta:       meta,
		Pagination: newPagination(query.Page, query.PageSize, total),
	})
}
