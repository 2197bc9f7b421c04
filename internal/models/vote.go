package models

import (
	"time"

	"gorm.io/gorm"
)

// VoteType distinguishes upvotes from downvotes.
type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

// Vote records a single identity's vote on a feedback post.
// The combination of FeedbackID and VoterName must be unique: an identity
// casts at most one vote per post and may not switch sides afterwards.
type Vote struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	FeedbackID uint           `gorm:"not null;uniqueIndex:idx_feedback_voter" json:"feedback_id"`
	VoterName  string         `gorm:"not null;uniqueIndex:idx_feedback_voter" json:"voter_name"`
	Type       VoteType       `gorm:"not null" json:"type"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
