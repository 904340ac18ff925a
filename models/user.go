package models

import (
	"time"

	"github.com/hk-arcade-map/api-go/types"
	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Username      string         `gorm:"uniqueIndex;not null" json:"username"`
	Email         string         `gorm:"uniqueIndex;not null" json:"-"` // only returned on the owner's profile
	Password      *string        `json:"-"`                             // nil for Google accounts
	DisplayName   string         `json:"display_name"`
	Bio           string         `json:"bio"`
	Avatar        string         `json:"avatar"`
	GoogleID      *string        `gorm:"uniqueIndex" json:"-"`
	Provider      string         `gorm:"not null;default:'email'" json:"provider"`
	Role          string         `gorm:"not null;default:'user'" json:"role"`
	AccountStatus string         `gorm:"not null;default:'active'" json:"account_status"`
	Points        int64          `gorm:"not null;default:0" json:"points"`
	Level         int            `gorm:"not null;default:1" json:"level"`
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Points < 0 {
		u.Points = 0
	}
	u.Level = types.LevelForPoints(u.Points)
	return nil
}

// CanModerate reports whether the user may approve comments and edit venues.
func (u *User) CanModerate() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}
