package model

import (
	"time"

	"gorm.io/gorm"
)

// Role identifies what an account is allowed to do. Authorization decisions
// switch over this type rather than comparing raw strings.
type Role string

const (
	RoleAdmin     Role = "admin"
	RolePrincipal Role = "principal"
	RoleSquad     Role = "squad"
	RoleStudent   Role = "student"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePrincipal, RoleSquad, RoleStudent:
		return true
	}
	return false
}

// User represents a registered account in the portal
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Username     string         `gorm:"uniqueIndex;not null;type:varchar(150)" json:"username"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string         `gorm:"uniqueIndex;not null;type:varchar(15)" json:"phone"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	Role         Role           `gorm:"type:varchar(10);default:'student'" json:"role"`
	CollegeID    *uint          `gorm:"index" json:"college_id,omitempty"`
	BranchID     *uint          `gorm:"index" json:"branch_id,omitempty"`
	RollNumber   string         `gorm:"type:varchar(50)" json:"roll_number,omitempty"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	IsSuspended  bool           `gorm:"default:false" json:"is_suspended"`
	TokenVersion int            `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens

	// Relationships
	College        *College            `gorm:"foreignKey:CollegeID;constraint:OnDelete:SET NULL" json:"college,omitempty"`
	Branch         *Branch             `gorm:"foreignKey:BranchID;constraint:OnDelete:SET NULL" json:"branch,omitempty"`
	Complaints     []Complaint         `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Feedbacks      []Feedback          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	NewsPosts      []News              `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
	Notifications  []UserNotification  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TokenBlacklist []JWTTokenBlacklist `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// UserResponse represents account data in API responses
type UserResponse struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Role        Role      `json:"role"`
	CollegeID   *uint     `json:"college_id,omitempty"`
	CollegeName string    `json:"college_name,omitempty"`
	BranchID    *uint     `json:"branch_id,omitempty"`
	BranchName  string    `json:"branch_name,omitempty"`
	RollNumber  string    `json:"roll_number,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsSuspended bool      `json:"is_suspended"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToResponse converts a User to UserResponse. College and branch names are
// filled only when the associations are preloaded.
func (u *User) ToResponse() UserResponse {
	res := UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		CollegeID:   u.CollegeID,
		BranchID:    u.BranchID,
		RollNumber:  u.RollNumber,
		IsActive:    u.IsActive,
		IsSuspended: u.IsSuspended,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.College != nil {
		res.CollegeName = u.College.Name
	}
	if u.Branch != nil {
		res.BranchName = u.Branch.Name
	}
	return res
}
