package models

import "time"

const (
	CommentPending  = "pending"
	CommentApproved = "approved"
	CommentRejected = "rejected"
)

type Comment struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	TargetType    string     `gorm:"size:16;not null;index:idx_comment_target,priority:1" json:"targetType"`
	TargetID      uint       `gorm:"not null;index:idx_comment_target,priority:2" json:"targetId"`
	UserID        uint       `gorm:"not null;index" json:"userId"`
	User          User       `gorm:"foreignKey:UserID" json:"user"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	Rating        *int       `json:"rating,omitempty"` // 1-5, optional
	Status        string     `gorm:"size:16;not null;default:'pending';index" json:"status"`
	ModeratorID   *uint      `json:"moderatorId,omitempty"`
	ModeratedAt   *time.Time `json:"moderatedAt,omitempty"`
	RejectReason  string     `json:"rejectReason,omitempty"`
	PointsAwarded bool       `gorm:"not null;default:false" json:"-"`
}
