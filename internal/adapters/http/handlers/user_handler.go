package handlers

import (
	"desaku-api/internal/adapters/http/middleware"
	"desaku-api/internal/core/services"
	"desaku-api/internal/pkg/pagination"
	"desaku-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers handles listing all users (Admin only)
// @Summary List all users
// @Description List accounts. search matches username, nama and telepon; role filters exactly.
// @Tags Users
// @Produce json
// @Security CookieAuth
// @Param search query string false "Search text"
// @Param role query string false "Role" Enums(admin, resident)
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	input := &services.ListUsersInput{
		Search: c.Query("search"),
		Role:   c.Query("role"),
		Params: pagination.GetParams(c),
	}

	users, total, err := h.userService.ListUsers(c.Context(), input)
	if err != nil {
		return respondError(c, err, "list users")
	}

	if input.Params != nil {
		return response.List(c, users, pagination.GetMeta(input.Params, total))
	}
	return response.List(c, users, nil)
}

// GetUser handles getting a user by ID (Admin only)
// @Summary Get user by ID
// @Tags Users
// @Produce json
// @Security CookieAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetUserByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "get user")
	}
	return response.Success(c, "", user)
}

// CreateUser handles creating a user (Admin only)
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body services.CreateUserInput true "User data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var input services.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.CreateUser(c.Context(), &input)
	if err != nil {
		return respondError(c, err, "create user")
	}
	return response.Created(c, "User created successfully", user)
}

// UpdateUser handles updating a user (Admin only)
// @Summary Update user
// @Description Update nama, role, telepon or nik. Passwords change through reset-password.
// @Tags Users
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "User ID"
// @Param body body services.UpdateUserInput true "Update data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateUser(c.Context(), c.Params("id"), &input)
	if err != nil {
		return respondError(c, err, "update user")
	}
	return response.Success(c, "User updated successfully", user)
}

// DeleteUser handles deleting a user (Admin only)
// @Summary Delete user
// @Tags Users
// @Produce json
// @Security CookieAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var actorID string
	if identity := middleware.CurrentIdentity(c); identity != nil {
		actorID = identity.ID
	}

	if err := h.userService.DeleteUser(c.Context(), id, actorID); err != nil {
		return respondError(c, err, "delete user")
	}
	return response.Success(c, "User deleted successfully", fiber.Map{"id": id})
}

// ResetPassword handles replacing a user's password (Admin only)
// @Summary Reset user password
// @Tags Users
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "User ID"
// @Param body body services.ResetPasswordInput true "New password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/users/{id}/reset-password [put]
func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	var input services.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.userService.ResetPassword(c.Context(), c.Params("id"), &input); err != nil {
		return respondError(c, err, "reset password")
	}
	return response.Success(c, "Password reset successfully", nil)
}
