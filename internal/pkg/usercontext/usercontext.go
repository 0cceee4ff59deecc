package usercontext

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Key is the Locals key the authenticated identity is attached under.
const Key = "USER_CONTEXT"

// UserContext is the authenticated identity attached to a request by the
// permission guard (or the lenient identity middleware for open routes).
type UserContext struct {
	UserID     string   `json:"user_id"`
	Email      string   `json:"email"`
	Roles      []string `json:"roles"`
	RoleClaim  string   `json:"role_claim"`
	IsLoggedIn bool     `json:"is_logged_in"`
}

// GetUserContext retrieves the user context from the fiber context.
// Returns a default anonymous context if none is set.
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals(Key); ctx != nil {
		if uc, ok := ctx.(UserContext); ok {
			return uc
		}
	}
	return UserContext{IsLoggedIn: false}
}

// SetUserContext attaches an identity to the request.
func SetUserContext(c *fiber.Ctx, uc UserContext) {
	c.Locals(Key, uc)
}

// IsLoggedIn checks if the current request carries an authenticated identity.
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetUserID returns the current user's ID, or "" when anonymous.
func GetUserID(c *fiber.Ctx) string {
	return GetUserContext(c).UserID
}

// HasRole reports whether the identity carries the given role
// (case-insensitive).
func (uc UserContext) HasRole(role string) bool {
	for _, r := range uc.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}
