package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports database reachability
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db   Pinger
	mode string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, mode string) *HealthHandler {
	return &HealthHandler{db: db, mode: mode}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚀 Desaku API is running",
		"mode":    h.mode,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API and database health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status, dbStatus, code := "ok", "healthy", fiber.StatusOK
	if err := h.db.HealthCheck(ctx); err != nil {
		status, dbStatus, code = "degraded", "unhealthy", fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": fiber.Map{
			"api":      "healthy",
			"database": dbStatus,
		},
	})
}
