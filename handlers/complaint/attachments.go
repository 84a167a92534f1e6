package complaint

import (
	"github.com/gofiber/fiber/v2"
	"github.com/guardian-portal/api/model"
	"github.com/guardian-portal/api/services"
	"github.com/guardian-portal/api/services/storage"
	"github.com/guardian-portal/api/utils/middleware"
	"github.com/guardian-portal/api/utils/response"
)

// maxAttachmentSize caps evidence uploads at 25 MB
const maxAttachmentSize = 25 * 1024 * 1024

// UploadAttachment stores an evidence file for a complaint. Only the filer
// may attach evidence, and only while the complaint is still open.
func (h *ComplaintHandler) UploadAttachment(c *fiber.Ctx) error {
	actor, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	if h.spaces == nil {
		return response.InternalServerError(c, "Object storage is not configured")
	}

	complaint, err := h.loadComplaint(c)
	if err != nil {
		return err
	}

	if complaint.StudentID != actor.ID {
		return response.Forbidden(c, "Only the filer can attach evidence")
	}

	if complaint.Status == model.StatusClosed {
		return response.BadRequest(c, "Cannot attach evidence to a closed complaint")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "No file provided")
	}

	if fileHeader.Size > maxAttachmentSize {
		return response.BadRequest(c, "File exceeds the 25 MB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	key := storage.EvidenceKey(complaint.ID, fileHeader.Filename)
	contentType := storage.GetContentType(fileHeader.Filename)

	url, err := h.spaces.UploadEvidence(c.Context(), key, file, contentType)
	if err != nil {
		return response.InternalServerError(c, "Failed to store file")
	}

	attachment := model.ComplaintAttachment{
		ComplaintID:  complaint.ID,
		UploadedByID: actor.ID,
		FileName:     fileHeader.Filename,
		FileSize:     fileHeader.Size,
		ContentType:  contentType,
		URL:          url,
	}

	if err := h.db.Create(&attachment).Error; err != nil {
		// Orphaned object; remove it so storage stays consistent
		_ = h.spaces.DeleteFile(c.Context(), key)
		return response.InternalServerError(c, "Failed to record attachment")
	}

	return response.Created(c, attachment)
}

// ListAttachments returns the attachments of a complaint within the
// requester's visibility scope.
func (h *ComplaintHandler) ListAttachments(c *fiber.Ctx) error {
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

	return response.Success(c, complaint.Attachments)
}
