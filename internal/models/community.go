package models

import (
	"time"

	"gorm.io/gorm"
)

// Community is an Admin-curated topic area containing feedback posts.
// Communities are created and deleted by Admins and never updated in place.
type Community struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
