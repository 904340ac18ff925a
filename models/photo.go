package models

import "time"

// Photo is an uploaded image attached to a venue or a machine.
type Photo struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	TargetType  string    `gorm:"size:16;not null;index:idx_photo_target,priority:1" json:"target_type"`
	TargetID    uint      `gorm:"not null;index:idx_photo_target,priority:2" json:"target_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	StorageKey  string    `gorm:"uniqueIndex;not null" json:"key"`
	URL         string    `gorm:"not null" json:"url"`
	ContentType string    `gorm:"size:50" json:"content_type"`
	FileSize    int64     `json:"file_size"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Caption     string    `gorm:"size:255" json:"caption"`
}
