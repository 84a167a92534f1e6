package model

import (
	"time"

	"gorm.io/gorm"
)

// ComplaintStatus represents where a complaint sits in its lifecycle
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "pending"
	StatusInProgress ComplaintStatus = "in_progress"
	StatusSolved     ComplaintStatus = "solved"
	StatusClosed     ComplaintStatus = "closed"
)

// Valid reports whether s is a known complaint status.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusSolved, StatusClosed:
		return true
	}
	return false
}

// AnonymousStudentName is shown in place of the filer's identity on
// anonymous complaints for everyone except admins and the filer.
const AnonymousStudentName = "Anonymous Student"

// Complaint is the central workflow entity of the portal. The filing student
// and the college/branch snapshot are fixed at creation and never change.
type Complaint struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
	StudentID    uint            `gorm:"index;not null" json:"-"`
	CollegeID    *uint           `gorm:"index" json:"college_id,omitempty"`
	BranchID     *uint           `gorm:"index" json:"branch_id,omitempty"`
	Title        string          `gorm:"not null;type:varchar(200)" json:"title"`
	Description  string          `gorm:"type:text;not null" json:"description"`
	Status       ComplaintStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	AssignedToID *uint           `gorm:"index" json:"assigned_to_id,omitempty"`
	IsAnonymous  bool            `gorm:"default:false" json:"is_anonymous"`

	// Relationships
	Student     *User                 `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	College     *College              `gorm:"foreignKey:CollegeID;constraint:OnDelete:CASCADE" json:"-"`
	Branch      *Branch               `gorm:"foreignKey:BranchID;constraint:OnDelete:CASCADE" json:"-"`
	AssignedTo  *User                 `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL" json:"-"`
	Attachments []ComplaintAttachment `gorm:"foreignKey:ComplaintID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
	Feedbacks   []Feedback            `gorm:"foreignKey:ComplaintID;constraint:OnDelete:CASCADE" json:"-"`
}

// ComplaintAttachment is an evidence file uploaded by the filing student,
// stored in object storage with only the URL kept here.
type ComplaintAttachment struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	ComplaintID  uint           `gorm:"index;not null" json:"complaint_id"`
	UploadedByID uint           `gorm:"index;not null" json:"uploaded_by_id"`
	FileName     string         `gorm:"not null;type:varchar(255)" json:"file_name"`
	FileSize     int64          `json:"file_size"`
	ContentType  string         `gorm:"type:varchar(100)" json:"content_type"`
	URL          string         `gorm:"not null;type:varchar(512)" json:"url"`

	// Relationships
	Complaint  *Complaint `gorm:"foreignKey:ComplaintID;constraint:OnDelete:CASCADE" json:"-"`
	UploadedBy *User      `gorm:"foreignKey:UploadedByID;constraint:OnDelete:CASCADE" json:"-"`
}

// ComplaintResponse represents a complaint in API responses. The student
// block is redacted on anonymous complaints depending on the viewer.
type ComplaintResponse struct {
	ID          uint                  `json:"id"`
	Student     *UserResponse         `json:"student,omitempty"`
	StudentName string                `json:"student_name"`
	CollegeID   *uint                 `json:"college_id,omitempty"`
	CollegeName string                `json:"college_name,omitempty"`
	BranchID    *uint                 `json:"branch_id,omitempty"`
	BranchName  string                `json:"branch_name,omitempty"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      ComplaintStatus       `json:"status"`
	AssignedTo  *UserResponse         `json:"assigned_to,omitempty"`
	IsAnonymous bool                  `json:"is_anonymous"`
	Attachments []ComplaintAttachment `json:"attachments,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// ToResponse converts a Complaint to ComplaintResponse as seen by viewer.
// On anonymous complaints the filer's identity is withheld from everyone
// except admins and the filer themselves; the record keeps the true filer.
func (c *Complaint) ToResponse(viewer *User) ComplaintResponse {
	res := ComplaintResponse{
		ID:          c.ID,
		CollegeID:   c.CollegeID,
		BranchID:    c.BranchID,
		Title:       c.Title,
		Description: c.Description,
		Status:      c.Status,
		IsAnonymous: c.IsAnonymous,
		Attachments: c.Attachments,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.College != nil {
		res.CollegeName = c.College.Name
	}
	if c.Branch != nil {
		res.BranchName = c.Branch.Name
	}
	if c.AssignedTo != nil {
		assigned := c.AssignedTo.ToResponse()
		res.AssignedTo = &assigned
	}

	if c.IsAnonymous && !c.IdentityVisibleTo(viewer) {
		res.StudentName = AnonymousStudentName
		return res
	}
	if c.Student != nil {
		student := c.Student.ToResponse()
		res.Student = &student
		res.StudentName = c.Student.Username
	}
	return res
}

// IdentityVisibleTo reports whether viewer may see the filer of an
// anonymous complaint.
func (c *Complaint) IdentityVisibleTo(viewer *User) bool {
	if viewer == nil {
		return false
	}
	return viewer.Role == RoleAdmin || viewer.ID == c.StudentID
}
