package models

import (
	"time"

	"github.com/hk-arcade-map/api-go/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Venue struct {
	ID           uint                        `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt              `json:"-" gorm:"index"`
	Name         string                      `json:"name" gorm:"not null;index"`
	Description  string                      `json:"description" gorm:"type:text"`
	Address      string                      `json:"address"`
	City         string                      `json:"city"`
	State        string                      `json:"state"`
	Latitude     float64                     `json:"latitude" gorm:"type:decimal(10,8);default:0"`
	Longitude    float64                     `json:"longitude" gorm:"type:decimal(11,8);default:0"`
	Region       types.Region                `json:"region,omitempty" gorm:"type:varchar(32);index"`
	Category     string                      `json:"category" gorm:"type:varchar(32);not null;default:'arcade'"`
	Phone        string                      `json:"phone"`
	Website      string                      `json:"website"`
	OpeningHours string                      `json:"openingHours"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	CoverImage   string                      `json:"coverImage"`
	Analytics    types.VenueAnalytics        `json:"analytics" gorm:"embedded;embeddedPrefix:analytics_"`
	Popularity   int                         `json:"popularity" gorm:"not null;default:0;index"`
}

// RegionInput returns the free-text fields the region classifier reads.
func (v *Venue) RegionInput() types.RegionInput {
	return types.RegionInput{Name: v.Name, Address: v.Address, City: v.City, State: v.State}
}

// ClassifyRegion overwrites Region from the location fields. On no match the
// region is cleared: a stale tag is worse than none.
func (v *Venue) ClassifyRegion() types.RegionMatch {
	m := types.MatchRegion(v.RegionInput())
	v.Region = m.Region
	return m
}

// BeforeCreate tags new venues that arrive without a region.
func (v *Venue) BeforeCreate(tx *gorm.DB) error {
	if v.Region == "" {
		v.ClassifyRegion()
	}
	return nil
}

// BeforeSave keeps Popularity a pure function of the analytics being written.
func (v *Venue) BeforeSave(tx *gorm.DB) error {
	v.Popularity = types.VenuePopularity(&v.Analytics)
	return nil
}
