package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	ProfileCookie   = "profile_id"
	ProfileHeader   = "X-Profile-ID"
	localsProfileID = "profileID"
	profileLifetime = 365 * 24 * time.Hour
)

// Profile makes sure every request belongs to a browser profile. A profile id is minted and
// set as a cookie on the first visit.
func Profile(secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(ProfileCookie)
		if id == "" {
			id = c.Get(ProfileHeader)
		}

		if _, err := uuid.Parse(id); err == nil {
			id = strings.Clone(id)
		} else {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     ProfileCookie,
				Value:    id,
				Path:     "/",
				Expires:  time.Now().Add(profileLifetime),
				HTTPOnly: true,
				Secure:   secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		c.Locals(localsProfileID, id)
		return c.Next()
	}
}

func ProfileID(c *fiber.Ctx) string {
	id, _ := c.Locals(localsProfileID).(string)
	return id
}
