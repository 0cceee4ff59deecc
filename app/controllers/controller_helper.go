package controllers

import (
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/civiceye/CivicEye/app/repository"
	"github.com/civiceye/CivicEye/internal/pkg/auth"
	"github.com/civiceye/CivicEye/internal/pkg/cache"
	"github.com/civiceye/CivicEye/internal/pkg/env"
	"github.com/civiceye/CivicEye/internal/pkg/objstore"
	"github.com/civiceye/CivicEye/internal/pkg/otp"
	"github.com/civiceye/CivicEye/internal/pkg/reports"
)

var (
	authOnce    sync.Once
	authService *auth.Service

	reportsOnce    sync.Once
	reportsService *reports.Service

	otpOnce  sync.Once
	otpStore *otp.Store

	storageClient *objstore.Client
)

func getAuthService() *auth.Service {
	authOnce.Do(func() {
		authService = auth.NewService(
			repository.GetGlobalFactory().GetUserRepository(),
			env.GetEnv("JWT_SECRET", ""),
		)
	})
	return authService
}

func getReportsService() *reports.Service {
	reportsOnce.Do(func() {
		f := repository.GetGlobalFactory()
		reportsService = reports.NewService(f.GetReportRepository(), f.GetNotificationRepository())
	})
	return reportsService
}

func getOtpStore() *otp.Store {
	otpOnce.Do(func() {
		otpStore = otp.NewStore(cache.GetClient())
	})
	return otpStore
}

// SetStorageClient installs the object-storage collaborator. It stays nil when
// attachment uploads are disabled; upload endpoints then answer 503.
func SetStorageClient(c *objstore.Client) {
	storageClient = c
}

// jsonError writes the API error envelope used across all JSON endpoints.
func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return jsonError(c, fiber.StatusBadRequest, "bad_request", message)
}

func notFound(c *fiber.Ctx, message string) error {
	return jsonError(c, fiber.StatusNotFound, "not_found", message)
}

func forbidden(c *fiber.Ctx, message string) error {
	return jsonError(c, fiber.StatusForbidden, "forbidden", message)
}

func unauthorized(c *fiber.Ctx, message string) error {
	return jsonError(c, fiber.StatusUnauthorized, "unauthorized", message)
}

func internalError(c *fiber.Ctx, message string) error {
	return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", message)
}
