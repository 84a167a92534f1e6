package model

import (
	"time"

	"gorm.io/gorm"
)

// CollegeType classifies an institution
type CollegeType string

const (
	CollegeTypeEngineering CollegeType = "engineering"
	CollegeTypePUC         CollegeType = "puc"
	CollegeTypeDiploma     CollegeType = "diploma"
	CollegeTypeITI         CollegeType = "iti"
	CollegeTypeMasters     CollegeType = "masters"
)

// Valid reports whether t is a known college type.
func (t CollegeType) Valid() bool {
	switch t {
	case CollegeTypeEngineering, CollegeTypePUC, CollegeTypeDiploma, CollegeTypeITI, CollegeTypeMasters:
		return true
	}
	return false
}

// College represents an institution registered with the portal
type College struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"not null;type:varchar(200)" json:"name"`
	Type        CollegeType    `gorm:"type:varchar(20);not null" json:"type"`
	PrincipalID *uint          `gorm:"uniqueIndex" json:"principal_id,omitempty"` // 1:1 managing principal
	Address     string         `gorm:"type:text" json:"address,omitempty"`

	// Relationships
	Principal  *User       `gorm:"foreignKey:PrincipalID;constraint:OnDelete:SET NULL" json:"principal,omitempty"`
	Branches   []Branch    `gorm:"foreignKey:CollegeID;constraint:OnDelete:CASCADE" json:"branches,omitempty"`
	Complaints []Complaint `gorm:"foreignKey:CollegeID;constraint:OnDelete:CASCADE" json:"-"`
}

// Branch represents a department or stream within a college
type Branch struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	CollegeID uint           `gorm:"index;not null" json:"college_id"`
	Name      string         `gorm:"not null;type:varchar(200)" json:"name"`
	Code      string         `gorm:"type:varchar(20)" json:"code,omitempty"`

	// Relationships
	College *College `gorm:"foreignKey:CollegeID;constraint:OnDelete:CASCADE" json:"college,omitempty"`
}
