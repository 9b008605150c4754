// Package auth implements the authenticated-identity middleware. It resolves
// a numeric user id from the request credentials (session cookie or bearer
// token) and rejects the request with a JSON 401 otherwise. Credential
// verification and token issuance live in the external auth service.
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/webshield/webshield/internal/web/handler"
	"github.com/webshield/webshield/internal/web/session"
)

const bearerPrefix = "Bearer "

// New returns a fiber middleware protecting the /api routes.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !strings.HasPrefix(c.Path(), "/api") {
			return c.Next()
		}

		token := credentials(c)
		if token == "" {
			return handler.Error(c, fiber.StatusUnauthorized, "authentication required")
		}

		sessData := new(session.Data)
		if err := sessData.Read(token); err != nil || sessData.UserID == 0 {
			return handler.Error(c, fiber.StatusUnauthorized, "invalid or expired session")
		}

		c.Locals(handler.UserIDLocal, sessData.UserID)

		return c.Next()
	}
}

// credentials extracts the session token from the session cookie or the
// Authorization header.
func credentials(c *fiber.Ctx) string {
	if cookie := c.Cookies("session"); cookie != "" {
		return cookie
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return strings.TrimPrefix(authHeader, bearerPrefix)
	}

	return ""
}
