package usercontext

import (
	"github.com/gofiber/fiber/v2"

	"github.com/paperwall-app/paperwall/app/models"
)

// UserContext represents the complete user context for a request. The
// ActiveSubscription field is materialized on every request by a read-time
// join against the store, never cached in the session.
type UserContext struct {
	UserID             uint                 `json:"user_id"`
	Username           string               `json:"username"`
	Email              string               `json:"email"`
	IsLoggedIn         bool                 `json:"is_logged_in"`
	ActiveSubscription *models.Subscription `json:"activeSubscription"`
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals("USER_CONTEXT"); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// HasActiveSubscription reports whether the viewer may read premium content
func HasActiveSubscription(c *fiber.Ctx) bool {
	return GetUserContext(c).ActiveSubscription != nil
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}
