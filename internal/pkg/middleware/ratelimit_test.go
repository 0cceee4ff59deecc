package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveLimit(t *testing.T) {
	assert.Equal(t, 10, EffectiveLimit(nil, 10))
	assert.Equal(t, 10, EffectiveLimit([]string{"Resident"}, 10))

	// Staff gets at least 200, admin at least 1000.
	assert.Equal(t, 200, EffectiveLimit([]string{"Staff"}, 10))
	assert.Equal(t, 400, EffectiveLimit([]string{"staff"}, 200))
	assert.Equal(t, 1000, EffectiveLimit([]string{"Admin"}, 10))
	assert.Equal(t, 2000, EffectiveLimit([]string{"admin"}, 200))

	// Admin wins when both roles are present.
	assert.Equal(t, 1000, EffectiveLimit([]string{"Staff", "Admin"}, 10))
}

func TestClientKeyPrefersIdentity(t *testing.T) {
	app := fiber.New()
	app.Use(IdentityMiddleware(guardSecret))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(ClientKey(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "aB3dE5fG", []string{"Resident"}))
	resp, err := app.Test(req)
	require.NoError(t, err)

	body := make([]byte, 64)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, "user-aB3dE5fG", string(body[:n]))
}

func TestClientKeyFallsBackToIP(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(ClientKey(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	body := make([]byte, 64)
	n, _ := resp.Body.Read(body)
	assert.Contains(t, string(body[:n]), "ip-")
}

func TestRateLimiterBlocksAnonymousOverBudget(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimiter(RateLimitConfig{Max: 3, Window: time.Minute}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimiterScalesForAdmin(t *testing.T) {
	app := fiber.New()
	app.Use(IdentityMiddleware(guardSecret))
	app.Use(RateLimiter(RateLimitConfig{Max: 2, Window: time.Minute}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	tok := signTestToken(t, "admin1", []string{"Admin"})
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func newRedisTestStorage(t *testing.T) fiber.Storage {
	t.Helper()

	mr := miniredis.RunT(t)
	host, portStr, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	storage := redis.New(redis.Config{Host: host, Port: port})
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

// Mirrors the router composition: the global limiter mounted app-wide and the
// stricter submit limiter stacked on one route, both over one shared Redis
// storage. The two must keep independent counters.
func TestStackedLimitersKeepSeparateCounters(t *testing.T) {
	storage := newRedisTestStorage(t)

	app := fiber.New()
	app.Use(IdentityMiddleware(guardSecret))
	app.Use(RateLimiter(RateLimitConfig{
		Name:    "global",
		Max:     20,
		Window:  time.Minute,
		Storage: storage,
	}))
	submitLimiter := RateLimiter(RateLimitConfig{
		Name:    "submit",
		Max:     5,
		Window:  time.Minute,
		Storage: storage,
	})
	ok := func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) }
	app.Post("/report/submit", submitLimiter, ok)
	app.Get("/report/other", ok)

	// Traffic elsewhere must not drain the submit budget.
	for i := 0; i < 10; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/report/other", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// The full submit budget is available and each submit counts once.
	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/report/submit", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "submit %d of 5", i+1)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/report/submit", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// The exhausted submit budget leaves the rest of the surface untouched.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/report/other", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRateLimiterSingleIncrementPerRequest(t *testing.T) {
	storage := newRedisTestStorage(t)

	app := fiber.New()
	app.Use(RateLimiter(RateLimitConfig{
		Name:    "global",
		Max:     4,
		Window:  time.Minute,
		Storage: storage,
	}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	// Exactly Max requests pass; a double-counting limiter would block at
	// the third request already.
	for i := 0; i < 4; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "request %d of 4", i+1)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
