package middleware

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory"
	"github.com/gofiber/storage/redis"

	"github.com/civiceye/CivicEye/internal/pkg/env"
	"github.com/civiceye/CivicEye/internal/pkg/usercontext"
)

// Default request budget: 10 requests per minute per identity, scaled up for
// privileged roles. Per-route limiters override this where declared.
const (
	DefaultRateLimit  = 10
	DefaultRateWindow = 60 * time.Second
)

// RateLimitConfig configures one limiter instance. Name namespaces the
// counter keys, so stacked limiters sharing one storage never read or write
// each other's counters.
type RateLimitConfig struct {
	Name    string
	Max     int
	Window  time.Duration
	Storage fiber.Storage
}

// NewRateLimitStorage creates the shared Redis-backed counter storage.
func NewRateLimitStorage() fiber.Storage {
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return redis.New(redis.Config{
		Host:     env.GetEnv("CACHE_HOST", "localhost"),
		Port:     port,
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		Database: 1, // keep counters out of the OTP/cache database
	})
}

// counter is the stored fixed-window state for one client key.
type counter struct {
	Count     int   `json:"count"`
	ExpiresAt int64 `json:"expires_at"`
}

// RateLimiter returns the adaptive per-identity limiter. Requests over budget
// are rejected before authorization or business logic runs.
//
// The window counting runs directly against the storage: the effective budget
// depends on the caller's roles, so it must be computed per request rather
// than fixed per middleware instance. Each request increments its window
// counter exactly once.
func RateLimiter(cfg RateLimitConfig) fiber.Handler {
	if cfg.Name == "" {
		cfg.Name = "global"
	}
	if cfg.Max <= 0 {
		cfg.Max = DefaultRateLimit
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultRateWindow
	}
	if cfg.Storage == nil {
		cfg.Storage = memory.New()
	}

	// Serializes the read-modify-write against the storage within this
	// process; the storage interface has no atomic increment.
	var mu sync.Mutex

	return func(c *fiber.Ctx) error {
		key := cfg.Name + ":" + ClientKey(c)
		limit := EffectiveLimit(usercontext.GetUserContext(c).Roles, cfg.Max)

		mu.Lock()
		var ctr counter
		if raw, err := cfg.Storage.Get(key); err == nil && len(raw) > 0 {
			_ = json.Unmarshal(raw, &ctr)
		}
		now := time.Now()
		if now.UnixNano() >= ctr.ExpiresAt {
			ctr = counter{ExpiresAt: now.Add(cfg.Window).UnixNano()}
		}
		ctr.Count++
		allowed := ctr.Count <= limit
		if allowed {
			if buf, err := json.Marshal(ctr); err == nil {
				_ = cfg.Storage.Set(key, buf, time.Duration(ctr.ExpiresAt-now.UnixNano()))
			}
		}
		mu.Unlock()

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "rate_limited",
				"message": "Too many requests, slow down",
			})
		}
		return c.Next()
	}
}

// ClientKey buckets a request by authenticated subject when present, else by
// client IP. Unresolvable clients all share the literal "unknown" bucket;
// that coarseness is accepted.
func ClientKey(c *fiber.Ctx) string {
	if uc := usercontext.GetUserContext(c); uc.IsLoggedIn && uc.UserID != "" {
		return "user-" + uc.UserID
	}

	if ip := c.IP(); ip != "" {
		return "ip-" + ip
	}
	if ips := c.IPs(); len(ips) > 0 && ips[0] != "" {
		return "ip-" + ips[0]
	}
	if fwd := c.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
		if first != "" {
			return "ip-" + first
		}
	}
	return "ip-unknown"
}

// EffectiveLimit scales the baseline budget by the identity's role set. The
// window length is never changed by role.
func EffectiveLimit(roles []string, limit int) int {
	for _, r := range roles {
		if strings.EqualFold(r, "admin") {
			return maxInt(limit*10, 1000)
		}
	}
	for _, r := range roles {
		if strings.EqualFold(r, "staff") {
			return maxInt(limit*2, 200)
		}
	}
	return limit
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
