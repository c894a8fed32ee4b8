package handlers

import (
	"desaku-api/internal/adapters/http/middleware"
	"desaku-api/internal/core/services"
	"desaku-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles the citizen side of letter applications
type ApplicationHandler struct {
	appService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(appService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// Submit handles a public letter application
// @Summary Submit letter application
// @Description Public. status is always "pending" and tanggalPengajuan the server time; the referenced jenisSurat must exist and be active.
// @Tags Pengajuan Surat
// @Accept json
// @Produce json
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/pengajuan-surat [post]
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	app, err := h.appService.Submit(c.Context(), c.Body())
	if err != nil {
		return respondError(c, err, "submit application")
	}
	return response.Created(c, "Application submitted", app)
}

// ListMine handles listing the caller's own applications
// @Summary List my applications
// @Description Applications filed under the caller's registered NIK, with jenisSuratDetail when the letter type still exists.
// @Tags Pengajuan Surat
// @Produce json
// @Security CookieAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/user/pengajuan [get]
func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	views, err := h.appService.ListMine(c.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		return respondError(c, err, "list applications")
	}
	return response.List(c, views, nil)
}
