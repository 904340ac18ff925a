package services

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/hk-arcade-map/api-go/logger"
	"github.com/hk-arcade-map/api-go/metrics"
	"github.com/hk-arcade-map/api-go/models"
	"github.com/hk-arcade-map/api-go/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	CheckInCooldown     = 24 * time.Hour
	CheckInMaxDistanceM = 300.0
)

// RecordVenueView counts a view unless the viewer was seen inside the dedup
// window. It returns whether the view counted.
func (s *Service) RecordVenueView(ctx context.Context, venueID uint, viewerKey string) (bool, error) {
	first, err := s.Views.FirstView(ctx, types.TargetVenue, venueID, viewerKey)
	if err != nil {
		// a dedup outage should not lose views
		logger.Warn().Err(err).Uint("venue_id", venueID).Msg("view dedup unavailable")
		first = true
	}
	if !first {
		metrics.ViewsDedupedTotal.Inc()
		return false, nil
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		venue, err := lockVenue(tx, venueID)
		if err != nil {
			return err
		}
		venue.Analytics.Views++
		return tx.Save(venue).Error
	})
	if err != nil {
		return false, err
	}
	metrics.PopularityRecomputesTotal.WithLabelValues("venue", "views").Inc()
	return true, nil
}

func (s *Service) RecordMachineView(ctx context.Context, machineID uint, viewerKey string) (bool, error) {
	first, err := s.Views.FirstView(ctx, types.TargetMachine, machineID, viewerKey)
	if err != nil {
		logger.Warn().Err(err).Uint("machine_id", machineID).Msg("view dedup unavailable")
		first = true
	}
	if !first {
		metrics.ViewsDedupedTotal.Inc()
		return false, nil
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		machine, err := lockMachine(tx, machineID)
		if err != nil {
			return err
		}
		machine.Analytics.Views++
		return tx.Save(machine).Error
	})
	if err != nil {
		return false, err
	}
	metrics.PopularityRecomputesTotal.WithLabelValues("machine", "views").Inc()
	return true, nil
}

// RecordCheckIn stores a check-in, bumps the venue counter and awards points.
// lat/lng of 0,0 skip the proximity check.
func (s *Service) RecordCheckIn(ctx context.Context, userID, venueID uint, lat, lng float64) (*models.CheckIn, error) {
	var checkIn *models.CheckIn
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		venue, err := lockVenue(tx, venueID)
		if err != nil {
			return err
		}

		if types.HasCoordinates(lat, lng) && types.HasCoordinates(venue.Latitude, venue.Longitude) {
			if types.CalculateDistance(lat, lng, venue.Latitude, venue.Longitude)*1000 > CheckInMaxDistanceM {
				return ErrTooFar
			}
		}

		var recent int64
		if err := tx.Model(&models.CheckIn{}).
			Where("user_id = ? AND venue_id = ? AND created_at > ?", userID, venueID, time.Now().Add(-CheckInCooldown)).
			Count(&recent).Error; err != nil {
			return err
		}
		if recent > 0 {
			return ErrCheckInTooSoon
		}

		checkIn = &models.CheckIn{UserID: userID, VenueID: venueID, Latitude: lat, Longitude: lng}
		if err := tx.Create(checkIn).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.CheckIn{}).Where("venue_id = ?", venueID).Count(&venue.Analytics.CheckIns).Error; err != nil {
			return err
		}
		if err := tx.Save(venue).Error; err != nil {
			return err
		}

		return awardPoints(tx, userID, types.ActionCheckIn, false, types.TargetVenue, venueID)
	})
	if err != nil {
		return nil, err
	}
	metrics.PopularityRecomputesTotal.WithLabelValues("venue", "checkIns").Inc()
	return checkIn, nil
}

// recountPhotos rewrites the target's photoCount from the photos table.
func recountPhotos(tx *gorm.DB, targetType string, targetID uint) error {
	countQuery := tx.Model(&models.Photo{}).Where("target_type = ? AND target_id = ?", targetType, targetID)

	switch targetType {
	case types.TargetVenue:
		venue, err := lockVenue(tx, targetID)
		if err != nil {
			return err
		}
		if err := countQuery.Count(&venue.Analytics.PhotoCount).Error; err != nil {
			return err
		}
		return tx.Save(venue).Error
	case types.TargetMachine:
		machine, err := lockMachine(tx, targetID)
		if err != nil {
			return err
		}
		if err := countQuery.Count(&machine.Analytics.PhotoCount).Error; err != nil {
			return err
		}
		return tx.Save(machine).Error
	}
	return ErrInvalidTarget
}

// AddPhoto persists a confirmed upload and awards the uploader.
func (s *Service) AddPhoto(ctx context.Context, photo *models.Photo) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := targetExists(tx, photo.TargetType, photo.TargetID); err != nil {
			return err
		}
		if err := tx.Create(photo).Error; err != nil {
			return err
		}
		if err := recountPhotos(tx, photo.TargetType, photo.TargetID); err != nil {
			return err
		}
		return awardPoints(tx, photo.UserID, types.ActionPhotoUpload, false, photo.TargetType, photo.TargetID)
	})
	if err != nil {
		return err
	}
	metrics.PopularityRecomputesTotal.WithLabelValues(photo.TargetType, "photoCount").Inc()
	return nil
}

// RemovePhoto deletes a photo owned by actorID (or any photo for moderators)
// and returns the deleted row so the caller can drop the stored object.
// Points already awarded are kept.
func (s *Service) RemovePhoto(ctx context.Context, photoID, actorID uint, canModerate bool) (*models.Photo, error) {
	var photo models.Photo
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&photo, photoID).Error; err != nil {
			return notFound(err)
		}
		if photo.UserID != actorID && !canModerate {
			return ErrForbidden
		}
		if err := tx.Delete(&photo).Error; err != nil {
			return err
		}
		err := recountPhotos(tx, photo.TargetType, photo.TargetID)
		if errors.Is(err, ErrNotFound) {
			// target already gone
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.PopularityRecomputesTotal.WithLabelValues(photo.TargetType, "photoCount").Inc()
	return &photo, nil
}

// CreateMachine adds a machine to a venue and refreshes the venue's machineCount.
func (s *Service) CreateMachine(ctx context.Context, machine *models.Machine) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		venue, err := lockVenue(tx, machine.VenueID)
		if err != nil {
			return err
		}
		if err := tx.Create(machine).Error; err != nil {
			return err
		}
		return recountMachines(tx, venue)
	})
}

func (s *Service) DeleteMachine(ctx context.Context, machineID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var machine models.Machine
		if err := tx.First(&machine, machineID).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Delete(&machine).Error; err != nil {
			return err
		}
		venue, err := lockVenue(tx, machine.VenueID)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return recountMachines(tx, venue)
	})
}

func recountMachines(tx *gorm.DB, venue *models.Venue) error {
	if err := tx.Model(&models.Machine{}).Where("venue_id = ?", venue.ID).Count(&venue.Analytics.MachineCount).Error; err != nil {
		return err
	}
	return tx.Save(venue).Error
}

// CreateComment validates the target and rating and stores the comment as pending.
func (s *Service) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.Rating != nil && (*comment.Rating < 1 || *comment.Rating > 5) {
		return ErrInvalidRating
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := targetExists(tx, comment.TargetType, comment.TargetID); err != nil {
			return err
		}
		comment.Status = models.CommentPending
		return tx.Omit(clause.Associations).Create(comment).Error
	})
}

// ModerateComment approves or rejects a comment. Pending comments may go
// either way; approved ones may only be rejected. Target ratings are
// recomputed from every approved rating.
func (s *Service) ModerateComment(ctx context.Context, commentID, moderatorID uint, approve bool, reason string) (*models.Comment, error) {
	var comment models.Comment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&comment, commentID).Error; err != nil {
			return notFound(err)
		}

		next := models.CommentRejected
		if approve {
			next = models.CommentApproved
		}
		if !canTransition(comment.Status, next) {
			return ErrInvalidTransition
		}

		now := time.Now()
		wasApproved := comment.Status == models.CommentApproved
		comment.Status = next
		comment.ModeratorID = &moderatorID
		comment.ModeratedAt = &now
		comment.RejectReason = ""
		if !approve {
			comment.RejectReason = reason
		}

		if approve && !comment.PointsAwarded {
			if err := awardPoints(tx, comment.UserID, types.ActionCommentApproved, comment.Rating != nil, comment.TargetType, comment.TargetID); err != nil {
				return err
			}
			comment.PointsAwarded = true
		}
		if err := tx.Omit(clause.Associations).Save(&comment).Error; err != nil {
			return err
		}

		if comment.Rating == nil || !(approve || wasApproved) {
			return nil
		}
		err := recomputeRating(tx, comment.TargetType, comment.TargetID)
		if errors.Is(err, ErrNotFound) {
			// target deleted; nothing left to rate
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	decision := "rejected"
	if approve {
		decision = "approved"
	}
	metrics.ModerationDecisionsTotal.WithLabelValues(decision).Inc()
	logger.Info().Uint("comment_id", commentID).Uint("moderator_id", moderatorID).Str("decision", decision).Msg("comment moderated")
	return &comment, nil
}

func canTransition(from, to string) bool {
	switch from {
	case models.CommentPending:
		return to == models.CommentApproved || to == models.CommentRejected
	case models.CommentApproved:
		return to == models.CommentRejected
	}
	return false
}

type ratingAggregate struct {
	Average sql.NullFloat64
	Total   int64
}

func recomputeRating(tx *gorm.DB, targetType string, targetID uint) error {
	var agg ratingAggregate
	if err := tx.Model(&models.Comment{}).
		Select("AVG(rating) AS average, COUNT(rating) AS total").
		Where("target_type = ? AND target_id = ? AND status = ? AND rating IS NOT NULL", targetType, targetID, models.CommentApproved).
		Scan(&agg).Error; err != nil {
		return err
	}
	average := 0.0
	if agg.Average.Valid {
		average = math.Round(agg.Average.Float64*100) / 100
	}

	switch targetType {
	case types.TargetVenue:
		venue, err := lockVenue(tx, targetID)
		if err != nil {
			return err
		}
		venue.Analytics.AverageRating = average
		venue.Analytics.TotalRatings = agg.Total
		return tx.Save(venue).Error
	case types.TargetMachine:
		machine, err := lockMachine(tx, targetID)
		if err != nil {
			return err
		}
		machine.Analytics.AverageRating = average
		machine.Analytics.TotalRatings = agg.Total
		return tx.Save(machine).Error
	}
	return ErrInvalidTarget
}
