package services

import (
	"context"
	"errors"
	"strings"

	"github.com/guardian-portal/api/model"
	"github.com/guardian-portal/api/utils/auth"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound  = errors.New("no account found with this email, phone, or username")
	ErrBadCredential    = errors.New("incorrect password")
	ErrAccountDisabled  = errors.New("account is disabled")
	ErrAccountSuspended = errors.New("account has been suspended")
)

// SessionClaims are the facts embedded into a session token after a
// successful login.
type SessionClaims struct {
	UserID    uint       `json:"user_id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	CollegeID *uint      `json:"college_id,omitempty"`
}

// IdentifierKind classifies what a login identifier looks like
type IdentifierKind int

const (
	IdentifierUsername IdentifierKind = iota
	IdentifierEmail
	IdentifierPhone
)

// ClassifyIdentifier decides which lookup to try first for an identifier.
// Anything containing @ is treated as an email; a digit string with an
// optional leading + is treated as a phone number; everything else is a
// username. A miss on the first lookup still falls through to the rest.
func ClassifyIdentifier(identifier string) IdentifierKind {
	if strings.Contains(identifier, "@") {
		return IdentifierEmail
	}
	digits := strings.TrimPrefix(identifier, "+")
	if digits != "" && isAllDigits(digits) {
		return IdentifierPhone
	}
	return IdentifierUsername
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IdentityService resolves login identifiers to accounts
type IdentityService struct {
	db *gorm.DB
}

// NewIdentityService creates a new identity service
func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{db: db}
}

// Resolve maps an identifier plus a credential to exactly one account.
// Resolution order: email (when the identifier contains @), then phone
// (digit strings), then username as the final fallback. Each lookup that
// finds nothing falls through to the next rule. Resolve never writes.
func (s *IdentityService) Resolve(ctx context.Context, identifier, credential string) (*model.User, *SessionClaims, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, nil, ErrAccountNotFound
	}

	var user *model.User
	var err error

	switch ClassifyIdentifier(identifier) {
	case IdentifierEmail:
		user, err = s.findBy(ctx, "email", strings.ToLower(identifier))
	case IdentifierPhone:
		user, err = s.findBy(ctx, "phone", identifier)
	}
	if err != nil {
		return nil, nil, err
	}

	// Username is the fallback for every identifier shape
	if user == nil {
		user, err = s.findBy(ctx, "username", identifier)
		if err != nil {
			return nil, nil, err
		}
	}

	if user == nil {
		return nil, nil, ErrAccountNotFound
	}

	if err := auth.VerifyPassword(user.PasswordHash, credential); err != nil {
		return nil, nil, ErrBadCredential
	}

	if !user.IsActive {
		return nil, nil, ErrAccountDisabled
	}

	// Suspension wins over the active flag
	if user.IsSuspended {
		return nil, nil, ErrAccountSuspended
	}

	claims := &SessionClaims{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CollegeID: user.CollegeID,
	}

	return user, claims, nil
}

func (s *IdentityService) findBy(ctx context.Context, column, value string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where(column+" = ?", value).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
