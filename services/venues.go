package services

import (
	"context"

	"github.com/hk-arcade-map/api-go/models"
	"gorm.io/gorm"
)

// UpdateVenue applies mutate to a locked copy of the venue and saves it, so an
// edit never overwrites counters written concurrently.
func (s *Service) UpdateVenue(ctx context.Context, venueID uint, mutate func(v *models.Venue) error) (*models.Venue, error) {
	var venue *models.Venue
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		venue, err = lockVenue(tx, venueID)
		if err != nil {
			return err
		}
		if err := mutate(venue); err != nil {
			return err
		}
		return tx.Save(venue).Error
	})
	if err != nil {
		return nil, err
	}
	return venue, nil
}

// DeleteVenue soft-deletes the venue and its machines.
func (s *Service) DeleteVenue(ctx context.Context, venueID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		venue, err := lockVenue(tx, venueID)
		if err != nil {
			return err
		}
		if err := tx.Where("venue_id = ?", venue.ID).Delete(&models.Machine{}).Error; err != nil {
			return err
		}
		return tx.Delete(venue).Error
	})
}
