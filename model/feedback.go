package model

import (
	"time"

	"gorm.io/gorm"
)

// Feedback is a free-text note a user attaches to a complaint, typically a
// student's response after resolution. Append-only, never edited.
type Feedback struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	UserID      uint           `gorm:"index;not null" json:"user_id"`
	ComplaintID uint           `gorm:"index;not null" json:"complaint_id"`
	Message     string         `gorm:"type:text;not null" json:"message"`

	// Relationships
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Complaint *Complaint `gorm:"foreignKey:ComplaintID;constraint:OnDelete:CASCADE" json:"-"`
}

// FeedbackResponse represents feedback in API responses
type FeedbackResponse struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"user_id"`
	UserName       string    `json:"user_name,omitempty"`
	ComplaintID    uint      `json:"complaint_id"`
	ComplaintTitle string    `json:"complaint_title,omitempty"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}

func (f *Feedback) ToResponse() FeedbackResponse {
	res := FeedbackResponse{
		ID:          f.ID,
		UserID:      f.UserID,
		ComplaintID: f.ComplaintID,
		Message:     f.Message,
		CreatedAt:   f.CreatedAt,
	}
	if f.User != nil {
		res.UserName = f.User.Username
	}
	if f.Complaint != nil {
		res.ComplaintTitle = f.Complaint.Title
	}
	return res
}
