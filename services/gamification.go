package services

import (
	"context"

	"github.com/hk-arcade-map/api-go/metrics"
	"github.com/hk-arcade-map/api-go/models"
	"github.com/hk-arcade-map/api-go/types"
	"gorm.io/gorm"
)

// awardPoints logs the award and adds it to the user inside tx. Actions worth
// nothing are ignored.
func awardPoints(tx *gorm.DB, userID uint, action string, withRating bool, refType string, refID uint) error {
	points := types.PointsForAction(action, withRating)
	if points == 0 {
		return nil
	}

	var user models.User
	if err := forUpdate(tx).First(&user, userID).Error; err != nil {
		return notFound(err)
	}
	user.Points += int64(points)
	if err := tx.Save(&user).Error; err != nil {
		return err
	}

	entry := models.PointLog{
		UserID:        userID,
		Action:        action,
		Points:        points,
		ReferenceType: refType,
		ReferenceID:   refID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}
	metrics.PointsAwardedTotal.WithLabelValues(action).Inc()
	return nil
}

// AwardPoints is the standalone form used by tools and admin actions.
func (s *Service) AwardPoints(ctx context.Context, userID uint, action string, withRating bool, refType string, refID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return awardPoints(tx, userID, action, withRating, refType, refID)
	})
}

// PointHistory returns the newest awards first.
func (s *Service) PointHistory(ctx context.Context, userID uint, limit, offset int) ([]models.PointLog, int64, error) {
	query := func() *gorm.DB {
		return s.DB.WithContext(ctx).Model(&models.PointLog{}).Where("user_id = ?", userID)
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var logs []models.PointLog
	if err := query().Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
