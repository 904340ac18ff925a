package models

import "time"

type CheckIn struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_checkin_user_venue,priority:3" json:"createdAt"`
	UserID    uint      `gorm:"not null;index:idx_checkin_user_venue,priority:1" json:"userId"`
	VenueID   uint      `gorm:"not null;index:idx_checkin_user_venue,priority:2" json:"venueId"`
	Latitude  float64   `gorm:"type:decimal(10,8);default:0" json:"latitude"`
	Longitude float64   `gorm:"type:decimal(11,8);default:0" json:"longitude"`
}
