package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/civiceye/CivicEye/app/models"
	"github.com/civiceye/CivicEye/internal/pkg/auth"
	"github.com/civiceye/CivicEye/internal/pkg/env"
	"github.com/civiceye/CivicEye/internal/pkg/token"
)

// refreshCookieName is shared across all three login surfaces.
const refreshCookieName = "refresh_token"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleAdminLogin authenticates an admin account.
func HandleAdminLogin(c *fiber.Ctx) error {
	return handleLogin(c, models.RoleAdmin)
}

// HandleStaffLogin authenticates a staff account.
func HandleStaffLogin(c *fiber.Ctx) error {
	return handleLogin(c, models.RoleStaff)
}

// HandleResidentLogin authenticates a resident account.
func HandleResidentLogin(c *fiber.Ctx) error {
	return handleLogin(c, models.RoleResident)
}

// handleLogin runs the shared login flow. All failure modes collapse into one
// generic 400 so the response never reveals whether an account exists.
func handleLogin(c *fiber.Ctx, role string) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	profile, ok := auth.ProfileFor(role)
	if !ok {
		return internalError(c, "Unknown login role")
	}

	pair, err := getAuthService().Login(role, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrLoginFailed) {
			return jsonError(c, fiber.StatusBadRequest, "login_failed", "Login failed")
		}
		return internalError(c, "Login failed")
	}

	setSessionCookie(c, profile.CookieName, pair.AccessToken, token.AccessTTL)
	setSessionCookie(c, refreshCookieName, pair.RefreshToken, token.RefreshTTL)

	return c.JSON(fiber.Map{
		"message":          "Login successful",
		profile.TokenField: pair.AccessToken,
		"refresh_token":    pair.RefreshToken,
	})
}

// HandleAdminLogout clears the admin session cookies.
func HandleAdminLogout(c *fiber.Ctx) error {
	return handleLogout(c, models.RoleAdmin)
}

// HandleStaffLogout clears the staff session cookies.
func HandleStaffLogout(c *fiber.Ctx) error {
	return handleLogout(c, models.RoleStaff)
}

// HandleResidentLogout clears the resident session cookies.
func HandleResidentLogout(c *fiber.Ctx) error {
	return handleLogout(c, models.RoleResident)
}

// handleLogout expires the role cookie and the refresh cookie. Tokens are
// stateless, so logout is purely a client-side cookie removal; an
// already-logged-out call succeeds the same way.
func handleLogout(c *fiber.Ctx, role string) error {
	if profile, ok := auth.ProfileFor(role); ok {
		clearSessionCookie(c, profile.CookieName)
	}
	clearSessionCookie(c, refreshCookieName)

	return c.JSON(fiber.Map{"message": "Logout successful"})
}

func setSessionCookie(c *fiber.Ctx, name, value string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   env.IsProd(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   env.IsProd(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
