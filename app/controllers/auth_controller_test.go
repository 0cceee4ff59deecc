package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogoutClearsSessionCookies(t *testing.T) {
	app := fiber.New()
	app.Post("/resident/logout", HandleResidentLogout)

	req := httptest.NewRequest(http.MethodPost, "/resident/logout", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "some-token"})
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "some-refresh"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Both cookies come back expired.
	cleared := map[string]bool{}
	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 {
			cleared[c.Name] = true
		}
	}
	assert.True(t, cleared["access_token"])
	assert.True(t, cleared["refresh_token"])
}

func TestLogoutWithoutSessionStillSucceeds(t *testing.T) {
	app := fiber.New()
	app.Post("/admin/logout", HandleAdminLogout)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/admin/logout", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginRejectsMissingCredentials(t *testing.T) {
	app := fiber.New()
	app.Post("/resident/login", HandleResidentLogin)

	req := httptest.NewRequest(http.MethodPost, "/resident/login", nil)
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
