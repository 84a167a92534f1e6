package college

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/guardian-portal/api/model"
	"github.com/guardian-portal/api/utils/response"
	"github.com/guardian-portal/api/utils/validation"
	"gorm.io/gorm"
)

// CollegeHandler handles college and branch reference data
type CollegeHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewCollegeHandler creates a new college handler
func NewCollegeHandler(db *gorm.DB) *CollegeHandler {
	return &CollegeHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateCollegeRequest represents a college creation request
type CreateCollegeRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	Type    string `json:"type" validate:"required"`
	Address string `json:"address,omitempty"`
}

// CreateBranchRequest represents a branch creation request
type CreateBranchRequest struct {
	Name string `json:"name" validate:"required,min=2,max=200"`
	Code string `json:"code,omitempty" validate:"max=20"`
}

// ListColleges returns all colleges with their branches. Public so the
// registration form can populate its pickers.
func (h *CollegeHandler) ListColleges(c *fiber.Ctx) error {
	var colleges []model.College
	query := h.db.Preload("Branches").Order("name ASC")

	if t := c.Query("type"); t != "" {
		if !model.CollegeType(t).Valid() {
			return response.BadRequest(c, "Unknown college type")
		}
		query = query.Where("type = ?", t)
	}

	if err := query.Find(&colleges).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch colleges")
	}

	return response.Success(c, colleges)
}

// GetCollege returns a single college with branches
func (h *CollegeHandler) GetCollege(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid college ID")
	}

	var college model.College
	if err := h.db.Preload("Branches").First(&college, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "College not found")
		}
		return response.InternalServerError(c, "Failed to fetch college")
	}

	return response.Success(c, college)
}

// ListBranches returns branches, optionally filtered by ?college=ID
func (h *CollegeHandler) ListBranches(c *fiber.Ctx) error {
	var branches []model.Branch
	query := h.db.Order("name ASC")

	if collegeParam := c.Query("college"); collegeParam != "" {
		collegeID, err := strconv.ParseUint(collegeParam, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid college filter")
		}
		query = query.Where("college_id = ?", collegeID)
	}

	if err := query.Find(&branches).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch branches")
	}

	return response.Success(c, branches)
}

// ListCollegeBranches returns the branches of one college
func (h *CollegeHandler) ListCollegeBranches(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid college ID")
	}

	var college model.College
	if err := h.db.First(&college, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "College not found")
		}
		return response.InternalServerError(c, "Failed to fetch college")
	}

	var branches []model.Branch
	if err := h.db.Where("college_id = ?", college.ID).Order("name ASC").Find(&branches).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch branches")
	}

	return response.Success(c, branches)
}

// CreateCollege creates a new college. Admin only, enforced by routing.
func (h *CollegeHandler) CreateCollege(c *fiber.Ctx) error {
	var req CreateCollegeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	fields := h.validator.CollectErrors(&req)
	if req.Type != "" && !model.CollegeType(req.Type).Valid() {
		fields["type"] = "Type must be one of: engineering, puc, diploma, iti, masters"
	}
	if len(fields) > 0 {
		return response.ValidationFailed(c, fields)
	}

	college := model.College{
		Name:    validation.SanitizeString(req.Name),
		Type:    model.CollegeType(req.Type),
		Address: validation.SanitizeString(req.Address),
	}

	if err := h.db.Create(&college).Error; err != nil {
		return response.InternalServerError(c, "Failed to create college")
	}

	return response.Created(c, college)
}

// CreateBranch adds a branch to a college. Admin only, enforced by routing.
func (h *CollegeHandler) CreateBranch(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid college ID")
	}

	var college model.College
	if err := h.db.First(&college, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "College not found")
		}
		return response.InternalServerError(c, "Failed to fetch college")
	}

	var req CreateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if fields := h.validator.CollectErrors(&req); len(fields) > 0 {
		return response.ValidationFailed(c, fields)
	}

	branch := model.Branch{
		CollegeID: college.ID,
		Name:      validation.SanitizeString(req.Name),
		Code:      validation.SanitizeString(req.Code),
	}

	if err := h.db.Create(&branch).Error; err != nil {
		return response.InternalServerError(c, "Failed to create branch")
	}

	return response.Created(c, branch)
}
