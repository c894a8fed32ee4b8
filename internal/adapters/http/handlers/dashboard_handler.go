package handlers

import (
	"desaku-api/internal/core/services"
	"desaku-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetAdminDashboard returns record and application counts
// @Summary Admin dashboard
// @Description Record counts per kind, accounts by role and applications by status. Unauthenticated callers are redirected to the login page.
// @Tags Dashboard
// @Produce json
// @Security CookieAuth
// @Success 200 {object} response.Response
// @Failure 302 {string} string "Redirect to login"
// @Router /admin/dashboard [get]
func (h *DashboardHandler) GetAdminDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetAdminDashboard(c.Context())
	if err != nil {
		return respondError(c, err, "load dashboard")
	}
	return response.Success(c, "", data)
}
