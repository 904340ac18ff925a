package models

import "time"

// PointLog records every award so windowed leaderboards can sum it.
type PointLog struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time `gorm:"index:idx_point_user_date,priority:2" json:"createdAt"`
	UserID        uint      `gorm:"not null;index:idx_point_user_date,priority:1" json:"userId"`
	Action        string    `gorm:"size:50;not null" json:"action"` // "photo_uploaded", "venue_checked_in", "comment_approved"
	Points        int       `gorm:"not null" json:"points"`
	ReferenceType string    `gorm:"size:16" json:"referenceType"`
	ReferenceID   uint      `json:"referenceId"`
}
