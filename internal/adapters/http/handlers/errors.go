package handlers

import (
	"errors"
	"log"

	"desaku-api/internal/core/domain"
	"desaku-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors to the response envelope.
// Unknown errors are logged and reported as "Failed to <action>".
func respondError(c *fiber.Ctx, err error, action string) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return response.BadRequest(c, ve.Message)
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Not found")
	case errors.Is(err, domain.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	case errors.Is(err, domain.ErrAssetNotFound):
		return response.NotFound(c, "File not found")
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return response.Conflict(c, "Username already exists")
	case errors.Is(err, domain.ErrDuplicateEntry):
		return response.Conflict(c, "A record with the same unique value already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return response.Unauthorized(c, "Invalid username or password")
	case errors.Is(err, domain.ErrCannotDeleteSelf):
		return response.BadRequest(c, "Cannot delete your own account")
	default:
		log.Printf("❌ Failed to %s: %v", action, err)
		return response.InternalServerError(c, "Failed to "+action)
	}
}
