package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/civiceye/CivicEye/internal/pkg/token"
	"github.com/civiceye/CivicEye/internal/pkg/usercontext"
)

// accessCookies are all cookie names a session token may travel in, across
// the three role surfaces.
var accessCookies = []string{"admin_access", "staff_access", "resident_access", "access_token", "access"}

// IdentityMiddleware leniently resolves the caller's identity for every
// request so the rate limiter can key on it and open routes (e.g. report
// submission) can see who is calling. It never rejects; zone enforcement is
// the permission guard's job.
func IdentityMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := ExtractBearer(c)
		if raw == "" {
			for _, name := range accessCookies {
				if v := c.Cookies(name); v != "" {
					raw = v
					break
				}
			}
		}
		if raw == "" {
			return c.Next()
		}

		claims, err := token.Parse(raw, secret)
		if err != nil {
			// Invalid tokens are treated as anonymous here; protected
			// zones will reject them with a proper error.
			return c.Next()
		}

		usercontext.SetUserContext(c, usercontext.UserContext{
			UserID:     token.Subject(claims),
			Email:      token.Email(claims),
			Roles:      token.Roles(claims),
			RoleClaim:  token.ResolveRoleClaim(claims),
			IsLoggedIn: true,
		})
		return c.Next()
	}
}

// ExtractBearer returns the Authorization bearer token, or "".
func ExtractBearer(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
