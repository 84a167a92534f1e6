package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/guardian-portal/api/model"
	"github.com/guardian-portal/api/services"
	"github.com/guardian-portal/api/utils/response"
)

// LoginRequest represents a user login request. Identifier may be an
// email, phone number, or username.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	User   model.UserResponse      `json:"user"`
	Claims *services.SessionClaims `json:"claims"`
	TokenPair
}

// Login handles user login through the identity resolver: email when the
// identifier contains @, phone for digit strings, username as fallback.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Identifier == "" || req.Password == "" {
		return response.BadRequest(c, "Identifier and password are required")
	}

	ip := c.IP()

	user, claims, err := h.identityService.Resolve(c.Context(), req.Identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound), errors.Is(err, services.ErrBadCredential):
			if h.bruteForceProtection != nil {
				h.bruteForceProtection.RecordFailedAttempt(c, ip, req.Identifier)
			}
			// Never reveal which identifier field matched
			return response.Unauthorized(c, "Invalid credentials")
		case errors.Is(err, services.ErrAccountDisabled):
			return response.Unauthorized(c, "Account is disabled")
		case errors.Is(err, services.ErrAccountSuspended):
			return response.Unauthorized(c, "Account has been suspended")
		default:
			return response.InternalServerError(c, "Failed to process login")
		}
	}

	// Clear failed attempts on successful login
	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordSuccessfulAttempt(c, ip)
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate tokens")
	}

	return response.Success(c, LoginResponse{
		User:      user.ToResponse(),
		Claims:    claims,
		TokenPair: *tokens,
	})
}
