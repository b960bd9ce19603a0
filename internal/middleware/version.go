package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// VersionMiddleware records the API version the client asked for via the
// X-Api-Version header. Only one version is served today; the value sits in
// context so handlers can branch on it once a second one exists.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", "1.0.0")

		switch version {
		case "1", "1.0":
			version = "1.0.0"
		}

		c.Locals("apiVersion", version)
		return c.Next()
	}
}
