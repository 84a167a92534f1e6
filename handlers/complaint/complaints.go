package complaint

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/guardian-portal/api/model"
	"github.com/guardian-portal/api/services"
	"github.com/guardian-portal/api/services/storage"
	"github.com/guardian-portal/api/utils/middleware"
	"github.com/guardian-portal/api/utils/response"
	"github.com/guardian-portal/api/utils/validation"
	"gorm.io/gorm"
)

// ComplaintHandler handles the complaint workflow
type ComplaintHandler struct {
	db         *gorm.DB
	dispatcher services.Dispatcher
	spaces     *storage.SpacesClient
	validator  *validation.Validator
}

// NewComplaintHandler creates a new complaint handler. spaces may be nil
// when object storage is not configured; attachment uploads then fail with
// a clear error instead of at startup.
func NewComplaintHandler(db *gorm.DB, dispatcher services.Dispatcher, spaces *storage.SpacesClient) *ComplaintHandler {
	return &ComplaintHandler{
		db:         db,
		dispatcher: dispatcher,
		spaces:     spaces,
		validator:  validation.NewValidator(),
	}
}

// CreateComplaintRequest represents a complaint creation request. College
// and branch are never accepted from the client; they are snapshotted from
// the filer's profile.
type CreateComplaintRequest struct {
	Title       string `json:"title" validate:"required,min=5,max=200"`
	Description string `json:"description" validate:"required,min=10"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// UpdateComplaintRequest represents a status/assignment update
type UpdateComplaintRequest struct {
	Status       *string `json:"status,omitempty"`
	AssignedToID *uint   `json:"assigned_to_id,omitempty"`
}

// ListComplaints returns the complaints visible to the requesting user:
// admin sees all, a principal their college, a squad member their
// assignments, a student their own filings.
func (h *ComplaintHandler) ListComplaints(c *fiber.Ctx) error {
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

	scope := services.ComplaintVisibility(actor)

	base := h.db.Model(&model.Complaint{})
	base = scope.ApplyToComplaints(base)

	if status := c.Query("status"); status != "" {
		if !model.ComplaintStatus(status).Valid() {
			return response.BadRequest(c, "Unknown complaint status")
		}
		base = base.Where("complaints.status = ?", status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count complaints")
	}

	var complaints []model.Complaint
	err := base.
		Preload("Student").Preload("College").Preload("Branch").
		Preload("AssignedTo").Preload("Attachments").
		Order("complaints.created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&complaints).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch complaints")
	}

	results := make([]model.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		results = append(results, complaints[i].ToResponse(actor))
	}

	return response.Paginated(c, results, response.CalculatePagination(page, limit, total))
}

// GetComplaint returns one complaint if it falls inside the requester's
// visibility scope. Records outside the scope read as 404, not 403, so
// their existence is not leaked.
func (h *ComplaintHandler) GetComplaint(c *fiber.Ctx) error {
	actor, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	complaint, err := h.loadComplaint(c)
	if err != nil {
		return err
	}

	if !services.ComplaintVisibility(actor).Covers(complaint) {
		return response.NotFound(c, "Complaint not found")
	}

	return response.Success(c, complaint.ToResponse(actor))
}

// CreateComplaint files a new complaint. Students only; college and branch
// come from the filer's profile regardless of the request body.
func (h *ComplaintHandler) CreateComplaint(c *fiber.Ctx) error {
	actor, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	if decision := services.CanCreateComplaint(actor); !decision.Allowed() {
		return response.Forbidden(c, decision.Reason)
	}

	var req CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if fields := h.validator.CollectErrors(&req); len(fields) > 0 {
		return response.ValidationFailed(c, fields)
	}

	complaint := model.Complaint{
		StudentID:   actor.ID,
		CollegeID:   actor.CollegeID,
		BranchID:    actor.BranchID,
		Title:       validation.SanitizeString(req.Title),
		Description: validation.SanitizeString(req.Description),
		Status:      model.StatusPending,
		IsAnonymous: req.IsAnonymous,
	}

	if err := h.db.Create(&complaint).Error; err != nil {
		return response.InternalServerError(c, "Failed to create complaint")
	}

	complaint.Student = actor
	h.dispatcher.Dispatch(c.Context(), []services.Event{services.CreationEvent(&complaint)})

	return response.Created(c, complaint.ToResponse(actor))
}

// UpdateComplaint changes status and/or assignee. Admin, principal and
// squad only, within their visibility scope. Writing the current status
// again is a no-op and triggers no notification.
func (h *ComplaintHandler) UpdateComplaint(c *fiber.Ctx) error {
	actor, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	if decision := services.CanUpdateComplaint(actor); !decision.Allowed() {
		return response.Forbidden(c, decision.Reason)
	}

	complaint, err := h.loadComplaint(c)
	if err != nil {
		return err
	}

	if !services.ComplaintVisibility(actor).Covers(complaint) {
		return response.NotFound(c, "Complaint not found")
	}

	var req UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	patch := services.UpdatePatch{}

	if req.Status != nil {
		status := model.ComplaintStatus(*req.Status)
		if !status.Valid() {
			return response.BadRequest(c, "Unknown complaint status")
		}
		patch.Status = &status
	}

	if req.AssignedToID != nil {
		var assignee model.User
		if err := h.db.First(&assignee, *req.AssignedToID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.BadRequest(c, "Assignee not found")
			}
			return response.InternalServerError(c, "Failed to load assignee")
		}
		patch.AssignedTo = &assignee
	}

	events, err := services.ApplyUpdate(complaint, patch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTransition):
			return response.BadRequest(c, "Invalid status transition")
		case errors.Is(err, services.ErrInvalidAssignee):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to update complaint")
		}
	}

	updates := map[string]interface{}{
		"status":         complaint.Status,
		"assigned_to_id": complaint.AssignedToID,
	}
	if err := h.db.Model(complaint).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Failed to update complaint")
	}

	// Events fire only after the write committed
	h.dispatcher.Dispatch(c.Context(), events)

	return response.Success(c, complaint.ToResponse(actor))
}

func (h *ComplaintHandler) loadComplaint(c *fiber.Ctx) (*model.Complaint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, response.BadRequest(c, "Invalid complaint ID")
	}

	var complaint model.Complaint
	err = h.db.
		Preload("Student").Preload("College").Preload("Branch").
		Preload("AssignedTo").Preload("Attachments").
		First(&complaint, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NotFound(c, "Complaint not found")
		}
		return nil, response.InternalServerError(c, "Failed to fetch complaint")
	}

	return &complaint, nil
}
