package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a reply on a feedback post. CommenterName is a snapshot of the
// author's display name at creation time. Comments are never edited or
// deleted, and they survive deletion of the feedback they reference.
type Comment struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	FeedbackID    uint           `gorm:"not null;index" json:"feedbackId"`
	CommenterName string         `gorm:"not null" json:"commenterName"`
	CommentText   string         `gorm:"type:text;not null" json:"commentText"`
	CreatedAt     time.Time      `json:"createdAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
