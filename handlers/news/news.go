package news

import (
	"github.com/gofiber/fiber/v2"
	"github.com/guardian-portal/api/model"
	"github.com/guardian-portal/api/services"
	"github.com/guardian-portal/api/utils/middleware"
	"github.com/guardian-portal/api/utils/response"
	"github.com/guardian-portal/api/utils/validation"
	"gorm.io/gorm"
)

// NewsHandler handles announcement posts
type NewsHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(db *gorm.DB) *NewsHandler {
	return &NewsHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateNewsRequest represents a news post request
type CreateNewsRequest struct {
	Title     string `json:"title" validate:"required,min=3,max=200"`
	Content   string `json:"content" validate:"required,min=10"`
	CollegeID *uint  `json:"college_id,omitempty"`
}

// ListNews returns announcements, newest first. Readable by everyone who
// is logged in; an optional ?college filter narrows to one college plus
// the portal-wide posts.
func (h *NewsHandler) ListNews(c *fiber.Ctx) error {
	actor, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	query := h.db.Preload("CreatedBy").Order("posted_at DESC")

	// Non-admin users with a college see portal-wide posts and their own
	// college's posts
	if actor.Role != model.RoleAdmin && actor.CollegeID != nil {
		query = query.Where("college_id IS NULL OR college_id = ?", *actor.CollegeID)
	}

	var posts []model.News
	if err := query.Find(&posts).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch news")
	}

	return response.Success(c, posts)
}

// CreateNews publishes an announcement. Admin only.
func (h *NewsHandler) CreateNews(c *fiber.Ctx) error {
	actor, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	if decision := services.CanPostNews(actor); !decision.Allowed() {
		return response.Forbidden(c, decision.Reason)
	}

	var req CreateNewsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if fields := h.validator.CollectErrors(&req); len(fields) > 0 {
		return response.ValidationFailed(c, fields)
	}

	if req.CollegeID != nil {
		var college model.College
		if err := h.db.First(&college, *req.CollegeID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.BadRequest(c, "College not found")
			}
			return response.InternalServerError(c, "Failed to verify college")
		}
	}

	post := model.News{
		CreatedByID: actor.ID,
		CollegeID:   req.CollegeID,
		Title:       validation.SanitizeString(req.Title),
		Content:     validation.SanitizeString(req.Content),
	}

	if err := h.db.Create(&post).Error; err != nil {
		return response.InternalServerError(c, "Failed to create news post")
	}

	return response.Created(c, post)
}
