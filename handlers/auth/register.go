package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/guardian-portal/api/model"
	"github.com/guardian-portal/api/services"
	authutil "github.com/guardian-portal/api/utils/auth"
	"github.com/guardian-portal/api/utils/middleware"
	"github.com/guardian-portal/api/utils/response"
	"github.com/guardian-portal/api/utils/validation"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	db                   *gorm.DB
	jwtManager           *authutil.JWTManager
	blacklistService     *authutil.BlacklistService
	identityService      *services.IdentityService
	emailService         *services.EmailService
	bruteForceProtection *middleware.BruteForceProtection
	validator            *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, emailService *services.EmailService, bruteForceProtection *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		jwtManager:           jwtManager,
		blacklistService:     authutil.NewBlacklistService(db),
		identityService:      services.NewIdentityService(db),
		emailService:         emailService,
		bruteForceProtection: bruteForceProtection,
		validator:            validation.NewValidator(),
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=30"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role,omitempty"` // Optional, defaults to "student"
	CollegeID  *uint  `json:"college_id,omitempty"`
	BranchID   *uint  `json:"branch_id,omitempty"`
	RollNumber string `json:"roll_number,omitempty"`
}

// TokenPair carries freshly issued tokens in auth responses
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // in seconds
}

// RegisterResponse represents a successful registration response
type RegisterResponse struct {
	User model.UserResponse `json:"user"`
	TokenPair
}

// Register handles user registration. Every field violation is collected
// and reported in one response rather than failing on the first.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Username = validation.SanitizeString(req.Username)
	req.Email = strings.ToLower(validation.SanitizeString(req.Email))
	req.Phone = validation.SanitizeString(req.Phone)

	fields := h.validator.CollectErrors(&req)

	if _, ok := fields["username"]; !ok && req.Username != "" {
		if valid, msg := validation.ValidateUsername(req.Username); !valid {
			fields["username"] = msg
		}
	}
	if _, ok := fields["phone"]; !ok && req.Phone != "" {
		if valid, msg := validation.ValidatePhone(req.Phone); !valid {
			fields["phone"] = msg
		}
	}
	if _, ok := fields["password"]; !ok && req.Password != "" {
		if valid, msg := validation.ValidatePassword(req.Password); !valid {
			fields["password"] = msg
		}
	}

	// Registration never creates privileged accounts
	role := model.Role(req.Role)
	if req.Role == "" {
		role = model.RoleStudent
	}
	switch role {
	case model.RoleStudent, model.RolePrincipal, model.RoleSquad:
	default:
		fields["role"] = "Role must be one of: student, principal, squad"
	}

	// Duplicate identifiers are reported alongside format violations
	h.checkDuplicate(c, fields, "username", req.Username)
	h.checkDuplicate(c, fields, "email", req.Email)
	h.checkDuplicate(c, fields, "phone", req.Phone)

	if len(fields) > 0 {
		return response.ValidationFailed(c, fields)
	}

	hashedPassword, err := authutil.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	user := model.User{
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hashedPassword,
		Role:         role,
		CollegeID:    req.CollegeID,
		BranchID:     req.BranchID,
		RollNumber:   req.RollNumber,
		IsActive:     true,
		TokenVersion: 0,
	}

	if err := h.db.Create(&user).Error; err != nil {
		// Unique constraint race between the duplicate check and the write
		if isDuplicateKeyError(err) {
			return response.Conflict(c, "An account with this username, email, or phone already exists")
		}
		return response.InternalServerError(c, "Failed to create user")
	}

	tokens, err := h.issueTokens(&user)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate tokens")
	}

	if h.emailService != nil && h.emailService.IsConfigured() {
		go h.emailService.SendWelcomeEmail(user.Email, user.Username)
	}

	return response.Created(c, RegisterResponse{
		User:      user.ToResponse(),
		TokenPair: *tokens,
	})
}

func (h *AuthHandler) checkDuplicate(c *fiber.Ctx, fields map[string]string, column, value string) {
	if value == "" {
		return
	}
	if _, taken := fields[column]; taken {
		return
	}

	var count int64
	if err := h.db.WithContext(c.Context()).
		Model(&model.User{}).
		Where(column+" = ?", value).
		Count(&count).Error; err != nil {
		return
	}
	if count > 0 {
		fields[column] = "An account with this " + column + " already exists"
	}
}

func (h *AuthHandler) issueTokens(user *model.User) (*TokenPair, error) {
	accessToken, _, err := h.jwtManager.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, _, err := h.jwtManager.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    24 * 60 * 60, // 24 hours in seconds
	}, nil
}

func isDuplicateKeyError(err error) bool {
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}
