package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/gridbase/gridbase/internal/services"
	"github.com/gridbase/gridbase/internal/types"
)

// userIDKey is the fiber.Ctx locals key holding the authenticated user id.
const userIDKey = "userID"

// AuthUser validates that the request has user role authorization
func AuthUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, []string{"user"}, "base.authorization.user")
	}
}

// UserID returns the authenticated caller id set by the auth middleware.
func UserID(c *fiber.Ctx) (string, error) {
	id, ok := c.Locals(userIDKey).(string)
	if !ok || id == "" {
		return "", types.ErrUnauthorized
	}
	return id, nil
}

// SetUserID stores the caller id in context; the auth middleware uses it,
// and tests stub it in place of a live Authorizer.
func SetUserID(c *fiber.Ctx, id string) {
	c.Locals(userIDKey, id)
}

// authorize performs the authorization check
func authorize(c *fiber.Ctx, roles []string, errorType string) error {
	session := c.Cookies("cookie_session")
	if session == "" {
		return &types.StatusError{
			Code:    fiber.StatusUnauthorized,
			Message: "Authorizer cookie \"cookie_session\" not found",
			Type:    errorType,
			Err:     types.ErrUnauthorized,
		}
	}

	user, err := services.ValidateSession(session, roles)
	if err != nil {
		return &types.StatusError{
			Code:    fiber.StatusUnauthorized,
			Message: fmt.Sprintf("Invalid session: %v", err),
			Type:    errorType,
			Err:     types.ErrUnauthorized,
		}
	}

	SetUserID(c, user.ID)
	return c.Next()
}
