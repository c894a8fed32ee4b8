package handlers

import (
	"strings"
	"time"

	"desaku-api/internal/adapters/http/middleware"
	"desaku-api/internal/config"
	"desaku-api/internal/core/services"
	"desaku-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with username and password. Sets an HttpOnly session cookie and returns the token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if strings.TrimSpace(req.Username) == "" {
		return response.BadRequest(c, "Username is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	session, err := h.authService.Login(c.Context(), &services.LoginInput{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err, "login")
	}

	h.setSessionCookie(c, session.Token)

	return response.Success(c, "Login successful", session)
}

// Logout handles user logout
// @Summary Logout user
// @Description Clears the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearSessionCookie(c)
	return response.Success(c, "Logged out successfully", nil)
}

// Me returns the current user info
// @Summary Get current user
// @Description Get the currently authenticated user's account
// @Tags Auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)
	if identity == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.authService.CurrentUser(c.Context(), identity.ID)
	if err != nil {
		return respondError(c, err, "get current user")
	}

	return response.Success(c, "", user)
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.Cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.Session.MaxAge / time.Second),
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.Cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-1 * time.Hour),
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}
