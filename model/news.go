package model

import (
	"time"

	"gorm.io/gorm"
)

// News is an announcement posted by an administrator, optionally scoped to
// a single college. Everyone may read news; only admins may write it.
type News struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	CreatedByID uint           `gorm:"index;not null" json:"created_by_id"`
	CollegeID   *uint          `gorm:"index" json:"college_id,omitempty"`
	Title       string         `gorm:"not null;type:varchar(200)" json:"title"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	PostedAt    time.Time      `gorm:"autoCreateTime" json:"posted_at"`

	// Relationships
	CreatedBy *User    `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"created_by,omitempty"`
	College   *College `gorm:"foreignKey:CollegeID;constraint:OnDelete:CASCADE" json:"-"`
}
