// Package services holds every write path that touches analytics counters or
// user points. Each one locks the row it changes, mutates it in Go and saves
// the whole struct so the model hooks recompute popularity and level.
package services

import (
	"errors"

	"github.com/hk-arcade-map/api-go/models"
	"github.com/hk-arcade-map/api-go/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	DB    *gorm.DB
	Views *ViewDeduper
}

func New(db *gorm.DB, views *ViewDeduper) *Service {
	return &Service{DB: db, Views: views}
}

func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func lockVenue(tx *gorm.DB, id uint) (*models.Venue, error) {
	var venue models.Venue
	if err := forUpdate(tx).First(&venue, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &venue, nil
}

func lockMachine(tx *gorm.DB, id uint) (*models.Machine, error) {
	var machine models.Machine
	if err := forUpdate(tx).First(&machine, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &machine, nil
}

// targetExists checks a photo or comment target.
func targetExists(tx *gorm.DB, targetType string, id uint) error {
	var model interface{}
	switch targetType {
	case types.TargetVenue:
		model = &models.Venue{}
	case types.TargetMachine:
		model = &models.Machine{}
	default:
		return ErrInvalidTarget
	}
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
