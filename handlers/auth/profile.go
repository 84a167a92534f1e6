package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/guardian-portal/api/model"
	authutil "github.com/guardian-portal/api/utils/auth"
	"github.com/guardian-portal/api/utils/middleware"
	"github.com/guardian-portal/api/utils/response"
	"github.com/guardian-portal/api/utils/validation"
)

// UpdateProfileRequest represents a profile update request. Identity and
// role fields are not editable here.
type UpdateProfileRequest struct {
	Phone      string `json:"phone,omitempty"`
	RollNumber string `json:"roll_number,omitempty"`
	Password   string `json:"password,omitempty"`
}

// GetProfile retrieves the current user's profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var user model.User
	if err := h.db.Preload("College").Preload("Branch").First(&user, userID).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, user.ToResponse())
}

// UpdateProfile updates the current user's profile
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	fields := map[string]string{}

	if req.Phone != "" {
		req.Phone = validation.SanitizeString(req.Phone)
		if valid, msg := validation.ValidatePhone(req.Phone); !valid {
			fields["phone"] = msg
		} else {
			var count int64
			h.db.Model(&model.User{}).
				Where("phone = ? AND id <> ?", req.Phone, user.ID).
				Count(&count)
			if count > 0 {
				fields["phone"] = "An account with this phone already exists"
			} else {
				user.Phone = req.Phone
			}
		}
	}

	if req.RollNumber != "" {
		user.RollNumber = validation.SanitizeString(req.RollNumber)
	}

	if req.Password != "" {
		if valid, msg := validation.ValidatePassword(req.Password); !valid {
			fields["password"] = msg
		} else {
			hashed, err := authutil.HashPassword(req.Password)
			if err != nil {
				return response.InternalServerError(c, "Failed to process password")
			}
			user.PasswordHash = hashed
			// Invalidate every outstanding token on password change
			user.TokenVersion++
		}
	}

	if len(fields) > 0 {
		return response.ValidationFailed(c, fields)
	}

	if err := h.db.Save(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.Success(c, user.ToResponse())
}
