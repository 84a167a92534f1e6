package feedback

import (
	"github.com/gofiber/fiber/v2"
	"github.com/guardian-portal/api/model"
	"github.com/guardian-portal/api/services"
	"github.com/guardian-portal/api/utils/middleware"
	"github.com/guardian-portal/api/utils/response"
	"github.com/guardian-portal/api/utils/validation"
	"gorm.io/gorm"
)

// FeedbackHandler handles complaint feedback
type FeedbackHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(db *gorm.DB) *FeedbackHandler {
	return &FeedbackHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateFeedbackRequest represents a feedback submission
type CreateFeedbackRequest struct {
	ComplaintID uint   `json:"complaint_id" validate:"required"`
	Message     string `json:"message" validate:"required,min=3"`
}

// ListFeedback returns feedback visible to the requester: admin all,
// principal and squad the feedback of their college's users, students
// their own.
func (h *FeedbackHandler) ListFeedback(c *fiber.Ctx) error {
	actor, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	scope := services.FeedbackVisibility(actor)

	var feedbacks []model.Feedback
	err := scope.ApplyToFeedback(h.db.Model(&model.Feedback{})).
		Preload("User").Preload("Complaint").
		Order("feedbacks.created_at DESC").
		Find(&feedbacks).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch feedback")
	}

	results := make([]model.FeedbackResponse, 0, len(feedbacks))
	for i := range feedbacks {
		results = append(results, feedbacks[i].ToResponse())
	}

	return response.Success(c, results)
}

// CreateFeedback records feedback on a complaint. The author must be able
// to see the complaint; students can only comment on their own filings.
func (h *FeedbackHandler) CreateFeedback(c *fiber.Ctx) error {
	actor, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req CreateFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if fields := h.validator.CollectErrors(&req); len(fields) > 0 {
		return response.ValidationFailed(c, fields)
	}

	var complaint model.Complaint
	if err := h.db.First(&complaint, req.ComplaintID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Complaint not found")
		}
		return response.InternalServerError(c, "Failed to fetch complaint")
	}

	if !services.ComplaintVisibility(actor).Covers(&complaint) {
		return response.NotFound(c, "Complaint not found")
	}

	fb := model.Feedback{
		UserID:      actor.ID,
		ComplaintID: complaint.ID,
		Message:     validation.SanitizeString(req.Message),
	}

	if err := h.db.Create(&fb).Error; err != nil {
		return response.InternalServerError(c, "Failed to record feedback")
	}

	fb.User = actor
	fb.Complaint = &complaint

	return response.Created(c, fb.ToResponse())
}
