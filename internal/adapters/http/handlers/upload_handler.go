package handlers

import (
	"strings"

	"desaku-api/internal/core/services"
	"desaku-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UploadHandler handles image asset endpoints
type UploadHandler struct {
	uploadService *services.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// DeleteUploadRequest represents delete upload request body
type DeleteUploadRequest struct {
	Filename string `json:"filename"`
}

// Upload handles storing an image
// @Summary Upload image
// @Description Stores an image (max 5 MiB) under "<unixmillis>-<name>" and returns its public URL
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param foto formData file true "Image file"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/upload [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("foto")
	if err != nil {
		return response.BadRequest(c, "No file uploaded")
	}

	url, err := h.uploadService.Upload(c.Context(), fh)
	if err != nil {
		return respondError(c, err, "upload file")
	}

	return response.Uploaded(c, url)
}

// Delete handles removing an image (Admin only)
// @Summary Delete uploaded image
// @Description Removes a stored asset by file name or public URL
// @Tags Upload
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body DeleteUploadRequest true "File to delete"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/upload/delete [delete]
func (h *UploadHandler) Delete(c *fiber.Ctx) error {
	var req DeleteUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Filename) == "" {
		return response.BadRequest(c, "Filename is required")
	}

	if err := h.uploadService.Delete(c.Context(), req.Filename); err != nil {
		return respondError(c, err, "delete file")
	}

	return response.Success(c, "File deleted successfully", nil)
}
