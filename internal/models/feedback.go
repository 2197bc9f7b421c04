package models

import (
	"time"

	"gorm.io/gorm"
)

// Feedback is a Student-authored thread inside a community.
//
// CommunityID is deliberately not a database-level foreign key: deleting a
// community leaves its feedbacks retrievable by ID. StudentName, Standing and
// Major are snapshots taken at creation time, not live references to the
// authoring account.
type Feedback struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	CommunityID uint   `gorm:"not null;index" json:"communityId"`
	StudentName string `gorm:"not null" json:"studentName"`
	Standing    string `gorm:"not null" json:"standing"`
	Major       string `gorm:"not null" json:"major"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Upvotes     int    `gorm:"not null;default:0" json:"upvotes"`
	Downvotes   int    `gorm:"not null;default:0" json:"downvotes"`
	Starred     bool   `gorm:"not null;default:false" json:"starred"`
	// Upvoters, Downvoters, and CommentCount are derived at read time
	// from Vote and Comment rows.
	Upvoters     []string       `gorm:"-" json:"upvoters"`
	Downvoters   []string       `gorm:"-" json:"downvoters"`
	CommentCount int            `gorm:"-" json:"commentCount"`
	CreatedAt    time.Time      `json:"createdAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
