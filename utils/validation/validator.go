package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// UsernameRegex limits usernames to letters, numbers and underscores
	UsernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

	// PhoneRegex matches a bare digit string, optionally prefixed with +
	PhoneRegex = regexp.MustCompile(`^\+?[0-9]+$`)

	// PasswordMinLength is the minimum password length
	PasswordMinLength = 8

	// PhoneMinDigits is the minimum number of digits in a phone number
	PhoneMinDigits = 10
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// CollectErrors validates s and returns every violation as a field→message
// map. An empty map means the struct is valid.
func (v *Validator) CollectErrors(s interface{}) map[string]string {
	if err := v.validate.Struct(s); err != nil {
		return FormatValidationErrors(err)
	}
	return map[string]string{}
}

// FormatValidationErrors converts validation errors to a user-friendly format
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := strings.ToLower(e.Field())
			switch e.Tag() {
			case "required":
				errors[field] = fmt.Sprintf("%s is required", e.Field())
			case "email":
				errors[field] = "Invalid email format"
			case "min":
				errors[field] = fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
			case "max":
				errors[field] = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
			case "oneof":
				errors[field] = fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
			default:
				errors[field] = fmt.Sprintf("%s is invalid", e.Field())
			}
		}
	}

	return errors
}

// ValidateUsername checks if a username is valid
func ValidateUsername(username string) (bool, string) {
	if len(username) < 3 {
		return false, "Username must be at least 3 characters"
	}
	if len(username) > 30 {
		return false, "Username must be at most 30 characters"
	}
	if !UsernameRegex.MatchString(username) {
		return false, "Username can only contain letters, numbers, and underscores"
	}

	return true, ""
}

// ValidatePhone checks if a phone number is valid
func ValidatePhone(phone string) (bool, string) {
	if !PhoneRegex.MatchString(phone) {
		return false, "Phone number must contain only digits"
	}
	digits := strings.TrimPrefix(phone, "+")
	if len(digits) < PhoneMinDigits {
		return false, fmt.Sprintf("Phone number must be at least %d digits", PhoneMinDigits)
	}

	return true, ""
}

// ValidatePassword checks if a password meets minimum requirements
func ValidatePassword(password string) (bool, string) {
	if len(password) < PasswordMinLength {
		return false, fmt.Sprintf("Password must be at least %d characters", PasswordMinLength)
	}

	return true, ""
}

// SanitizeString removes potentially dangerous characters
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")
	// Trim whitespace
	s = strings.TrimSpace(s)
	return s
}
