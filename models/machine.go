package models

import (
	"time"

	"github.com/hk-arcade-map/api-go/types"
	"gorm.io/gorm"
)

type Machine struct {
	ID         uint                   `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt  time.Time              `json:"createdAt"`
	UpdatedAt  time.Time              `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt         `json:"-" gorm:"index"`
	VenueID    uint                   `json:"venueId" gorm:"not null;index"`
	Name       string                 `json:"name" gorm:"not null"`
	Brand      string                 `json:"brand"`
	Genre      string                 `json:"genre" gorm:"type:varchar(32);default:'other'"` // rhythm, fighting, racing, crane, shooter, other
	Quantity   int                    `json:"quantity" gorm:"not null;default:1"`
	Notes      string                 `json:"notes" gorm:"type:text"`
	Analytics  types.MachineAnalytics `json:"analytics" gorm:"embedded;embeddedPrefix:analytics_"`
	Popularity int                    `json:"popularity" gorm:"not null;default:0;index"`
}

func (m *Machine) BeforeSave(tx *gorm.DB) error {
	m.Popularity = types.MachinePopularity(&m.Analytics)
	return nil
}
