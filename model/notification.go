package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationType represents the type/severity of notification
type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
)

// NotificationCategory represents the category of notification
type NotificationCategory string

const (
	NotificationCategorySubmitted    NotificationCategory = "complaint_submitted"
	NotificationCategoryStatusUpdate NotificationCategory = "status_update"
	NotificationCategoryAssignment   NotificationCategory = "assignment"
	NotificationCategoryGeneral      NotificationCategory = "general"
)

// UserNotification is the in-app record of a notification. Every email the
// dispatcher sends also lands here so users can review it in the portal.
type UserNotification struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	DeletedAt   gorm.DeletedAt       `gorm:"index" json:"deleted_at,omitempty"`
	UserID      uint                 `gorm:"index;not null" json:"user_id"`
	Type        NotificationType     `gorm:"type:varchar(20);not null" json:"type"`
	Category    NotificationCategory `gorm:"type:varchar(30);not null" json:"category"`
	Title       string               `gorm:"type:varchar(255);not null" json:"title"`
	Message     string               `gorm:"type:text" json:"message"`
	Read        bool                 `gorm:"default:false" json:"read"`
	ComplaintID *uint                `gorm:"index" json:"complaint_id,omitempty"`
	Metadata    datatypes.JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`

	// Relationships
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Complaint *Complaint `gorm:"foreignKey:ComplaintID;constraint:OnDelete:SET NULL" json:"-"`
}

// NotificationMetadata captures the complaint context behind a notification
type NotificationMetadata struct {
	ComplaintID    uint            `json:"complaint_id,omitempty"`
	ComplaintTitle string          `json:"complaint_title,omitempty"`
	OldStatus      ComplaintStatus `json:"old_status,omitempty"`
	NewStatus      ComplaintStatus `json:"new_status,omitempty"`
	AssigneeID     uint            `json:"assignee_id,omitempty"`
}
