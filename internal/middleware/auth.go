package middleware

import (
	"strings"

	"cinereview-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

const localsUserID = "userID"

// TokenParser validates a session token and returns the user id it carries.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// sessionToken reads the session cookie, falling back to an Authorization bearer header.
func sessionToken(c *fiber.Ctx, cookieName string) string {
	if token := c.Cookies(cookieName); token != "" {
		return token
	}
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// OptionalAuth records the user id of a valid session and lets anonymous requests through.
func OptionalAuth(parser TokenParser, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := sessionToken(c, cookieName); token != "" {
			if userID, err := parser.ParseToken(token); err == nil {
				c.Locals(localsUserID, userID)
			}
		}
		return c.Next()
	}
}

// RequireAuth rejects requests without a valid session with 401.
func RequireAuth(parser TokenParser, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c, cookieName)
		if token == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "authentication required")
		}
		userID, err := parser.ParseToken(token)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "invalid session")
		}
		c.Locals(localsUserID, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localsUserID).(string)
	return id
}
