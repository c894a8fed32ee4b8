package middleware

import (
	"net/url"
	"strings"

	"desaku-api/internal/core/domain"
	"desaku-api/internal/core/services"
	"desaku-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// Authorizer decides whether a session token may pass
type Authorizer interface {
	Authorize(token string, required domain.Role) (services.Decision, *domain.Identity)
}

// Guard gates routes on the session token
type Guard struct {
	auth       Authorizer
	cookieName string
	loginPath  string
}

// NewGuard creates a new guard
func NewGuard(auth Authorizer, cookieName, loginPath string) *Guard {
	return &Guard{auth: auth, cookieName: cookieName, loginPath: loginPath}
}

// Token extracts the session token: cookie first, then Authorization header
func (g *Guard) Token(c *fiber.Ctx) string {
	if token := c.Cookies(g.cookieName); token != "" {
		return token
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// RequireAdmin allows only admin sessions on API routes
func (g *Guard) RequireAdmin() fiber.Handler {
	return g.api(domain.RoleAdmin)
}

// RequireSession allows any valid session on API routes
func (g *Guard) RequireSession() fiber.Handler {
	return g.api("")
}

// RequireAdminPage redirects non-admin callers on page routes to the login page
func (g *Guard) RequireAdminPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision, identity := g.auth.Authorize(g.Token(c), domain.RoleAdmin)
		if decision != services.Authorized {
			target := g.loginPath + "?callbackUrl=" + url.QueryEscape(c.OriginalURL())
			return c.Redirect(target, fiber.StatusFound)
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// api answers 401 for both unauthenticated and forbidden callers
func (g *Guard) api(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision, identity := g.auth.Authorize(g.Token(c), required)
		switch decision {
		case services.Authorized:
			c.Locals(identityKey, identity)
			return c.Next()
		case services.Forbidden:
			return response.Unauthorized(c, "Admin access required")
		default:
			return response.Unauthorized(c, "Unauthorized")
		}
	}
}

// CurrentIdentity returns the identity stored by the guard, or nil
func CurrentIdentity(c *fiber.Ctx) *domain.Identity {
	identity, _ := c.Locals(identityKey).(*domain.Identity)
	return identity
}
