package student

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/guardian-portal/api/model"
	"github.com/guardian-portal/api/services"
	authutil "github.com/guardian-portal/api/utils/auth"
	"github.com/guardian-portal/api/utils/middleware"
	"github.com/guardian-portal/api/utils/response"
	"gorm.io/gorm"
)

// StudentHandler handles student roster and moderation
type StudentHandler struct {
	db        *gorm.DB
	blacklist *authutil.BlacklistService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(db *gorm.DB) *StudentHandler {
	return &StudentHandler{
		db:        db,
		blacklist: authutil.NewBlacklistService(db),
	}
}

// ListStudents returns the student roster visible to the requester: admin
// all, principal own college, squad none, student self.
func (h *StudentHandler) ListStudents(c *fiber.Ctx) error {
	actor, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	scope := services.StudentVisibility(actor)
	base := scope.ApplyToStudents(h.db.Model(&model.User{}))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count students")
	}

	var students []model.User
	err := base.
		Preload("College").Preload("Branch").
		Order("users.username ASC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&students).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch students")
	}

	results := make([]model.UserResponse, 0, len(students))
	for i := range students {
		results = append(results, students[i].ToResponse())
	}

	return response.Paginated(c, results, response.CalculatePagination(page, limit, total))
}

// GetStudent returns a single student inside the requester's scope
func (h *StudentHandler) GetStudent(c *fiber.Ctx) error {
	actor, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid student ID")
	}

	scope := services.StudentVisibility(actor)

	var student model.User
	err = scope.ApplyToStudents(h.db.Model(&model.User{})).
		Preload("College").Preload("Branch").
		Where("users.id = ?", id).
		First(&student).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to fetch student")
	}

	return response.Success(c, student.ToResponse())
}

// Suspend blocks a student from logging in. Principals only, students
// only, same college only. Every outstanding session is invalidated.
func (h *StudentHandler) Suspend(c *fiber.Ctx) error {
	return h.setSuspended(c, true)
}

// Unsuspend restores a suspended student's access
func (h *StudentHandler) Unsuspend(c *fiber.Ctx) error {
	return h.setSuspended(c, false)
}

func (h *StudentHandler) setSuspended(c *fiber.Ctx, suspended bool) error {
	actor, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid student ID")
	}

	var target model.User
	if err := h.db.First(&target, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Account not found")
		}
		return response.InternalServerError(c, "Failed to fetch account")
	}

	decision := services.CanModerateStudent(actor, &target)
	if !decision.Allowed() {
		switch decision.Code {
		case services.CodeNotAStudent:
			return response.BadRequest(c, decision.Reason)
		default:
			return response.Forbidden(c, decision.Reason)
		}
	}

	if target.IsSuspended == suspended {
		// Idempotent; nothing to change
		return response.Success(c, target.ToResponse())
	}

	target.IsSuspended = suspended
	if err := h.db.Model(&target).Update("is_suspended", suspended).Error; err != nil {
		return response.InternalServerError(c, "Failed to update account")
	}

	if suspended {
		// Kill live sessions, not just future logins
		if err := h.blacklist.RevokeAllUserTokens(c.Context(), target.ID); err != nil {
			return response.InternalServerError(c, "Failed to revoke sessions")
		}
	}

	return response.Success(c, target.ToResponse())
}

// DeleteUser removes an account. Admin only.
func (h *StudentHandler) DeleteUser(c *fiber.Ctx) error {
	actor, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	if decision := services.CanDeleteUser(actor); !decision.Allowed() {
		return response.Forbidden(c, decision.Reason)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	if uint(id) == actor.ID {
		return response.BadRequest(c, "Cannot delete your own account")
	}

	var target model.User
	if err := h.db.First(&target, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Account not found")
		}
		return response.InternalServerError(c, "Failed to fetch account")
	}

	if err := h.db.Delete(&target).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete account")
	}

	return response.NoContent(c)
}
