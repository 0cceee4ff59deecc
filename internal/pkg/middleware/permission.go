package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/civiceye/CivicEye/internal/pkg/token"
	"github.com/civiceye/CivicEye/internal/pkg/usercontext"
)

// zone describes one protected route prefix: which role it demands, which
// cookies may carry the token, and the message for a missing credential.
type zone struct {
	role        string
	cookieNames []string
	missingMsg  string
}

// zones maps the first path segment to its protection profile. The resident
// surface historically accepted several cookie names; they are checked in
// order, first present wins.
var zones = map[string]zone{
	"admin": {
		role:        "admin",
		cookieNames: []string{"admin_access"},
		missingMsg:  "Admin authentication required",
	},
	"staff": {
		role:        "staff",
		cookieNames: []string{"staff_access"},
		missingMsg:  "Staff authentication required",
	},
	"resident": {
		role:        "resident",
		cookieNames: []string{"resident_access", "access_token", "access"},
		missingMsg:  "Resident authentication required",
	},
	"customer": {
		role:        "resident",
		cookieNames: []string{"resident_access", "access_token", "access"},
		missingMsg:  "Resident authentication required",
	},
}

// GuardConfig configures the permission guard.
type GuardConfig struct {
	Secret string
	// PathPrefix is a global prefix stripped before the role zone is read.
	PathPrefix string
	// PublicPaths bypass the guard unconditionally, token or not.
	PublicPaths []string
}

// PermissionGuard gates requests into the role-prefixed surfaces. Routes
// outside the known zones pass through untouched; ownership rules for those
// are enforced in their controllers. Verification happens on every request;
// results are never cached across requests.
func PermissionGuard(cfg GuardConfig) fiber.Handler {
	public := make(map[string]bool, len(cfg.PublicPaths))
	for _, p := range cfg.PublicPaths {
		public[p] = true
	}

	return func(c *fiber.Ctx) error {
		path := c.Path()
		if public[path] {
			return c.Next()
		}

		trimmed := strings.TrimPrefix(path, cfg.PathPrefix)
		segment := firstSegment(trimmed)

		z, protected := zones[segment]
		if !protected {
			// Open-by-default routing convenience for non-role prefixes,
			// not a security boundary for those paths.
			return c.Next()
		}

		raw := ExtractBearer(c)
		if raw == "" {
			for _, name := range z.cookieNames {
				if v := c.Cookies(name); v != "" {
					raw = v
					break
				}
			}
		}
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": z.missingMsg,
			})
		}

		claims, err := token.Parse(raw, cfg.Secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "Invalid or expired token",
			})
		}

		roles := token.Roles(claims)
		roleClaim := token.ResolveRoleClaim(claims)

		if !roleSatisfies(z.role, roles, roleClaim) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "forbidden",
				"message": "Insufficient permissions",
			})
		}

		usercontext.SetUserContext(c, usercontext.UserContext{
			UserID:     token.Subject(claims),
			Email:      token.Email(claims),
			Roles:      roles,
			RoleClaim:  roleClaim,
			IsLoggedIn: true,
		})
		return c.Next()
	}
}

// roleSatisfies decides whether the token's role claims admit it to a zone.
// Admin and staff zones require an exact role; the resident zone is
// permissive: a token with no role information at all is treated as
// implicitly resident, but a present, non-matching claim is rejected.
func roleSatisfies(expected string, roles []string, roleClaim string) bool {
	for _, r := range roles {
		if strings.EqualFold(r, expected) {
			return true
		}
	}
	if roleClaim == expected {
		return true
	}
	if expected == "resident" && roleClaim == "" && len(roles) == 0 {
		return true
	}
	return false
}

func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if idx := strings.IndexByte(path, '/'); idx >= 0 {
		path = path[:idx]
	}
	return strings.ToLower(path)
}
