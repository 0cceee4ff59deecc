package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/civiceye/CivicEye/app/controllers"
	"github.com/civiceye/CivicEye/internal/pkg/env"
	"github.com/civiceye/CivicEye/internal/pkg/middleware"
	"github.com/civiceye/CivicEye/internal/pkg/objstore"
)

type HttpRouter struct {
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

// publicPaths bypass the permission guard. Everything else under a role
// prefix demands a matching token.
var publicPaths = []string{
	"/admin/login",
	"/admin/logout",
	"/staff/login",
	"/staff/logout",
	"/resident/login",
	"/resident/logout",
	"/resident/register",
	"/resident/verify-otp",
	"/resident/forgot-password",
	"/resident/reset-password",
	"/report/submit",
	"/report/upload",
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	secret := env.GetEnv("JWT_SECRET", "")

	// Object storage is optional; without it the upload endpoints answer 503.
	if cfg, err := objstore.LoadConfig(); err != nil {
		log.Errorf("[Router] invalid object storage config, uploads disabled: %v", err)
	} else if cfg.IsEnabled() {
		client, err := objstore.NewClient(cfg)
		if err != nil {
			log.Errorf("[Router] object storage unavailable, uploads disabled: %v", err)
		} else {
			controllers.SetStorageClient(client)
		}
	}

	storage := middleware.NewRateLimitStorage()

	app.Use(middleware.IdentityMiddleware(secret))
	app.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		Name:    "global",
		Max:     middleware.DefaultRateLimit,
		Window:  middleware.DefaultRateWindow,
		Storage: storage,
	}))
	app.Use(middleware.PermissionGuard(middleware.GuardConfig{
		Secret:      secret,
		PublicPaths: publicPaths,
	}))

	// Submissions and uploads are open routes, so they get a stricter budget
	// than the global one.
	submitLimiter := middleware.RateLimiter(middleware.RateLimitConfig{
		Name:    "submit",
		Max:     5,
		Window:  time.Minute,
		Storage: storage,
	})

	h.registerAuthRoutes(app)
	h.registerReportRoutes(app, submitLimiter)
	h.registerStaffRoutes(app)
	h.registerAdminRoutes(app)
}

func (h HttpRouter) registerAuthRoutes(app *fiber.App) {
	app.Post("/admin/login", controllers.HandleAdminLogin)
	app.Post("/admin/logout", controllers.HandleAdminLogout)
	app.Post("/staff/login", controllers.HandleStaffLogin)
	app.Post("/staff/logout", controllers.HandleStaffLogout)
	app.Post("/resident/login", controllers.HandleResidentLogin)
	app.Post("/resident/logout", controllers.HandleResidentLogout)

	app.Post("/resident/register", controllers.HandleResidentRegister)
	app.Post("/resident/verify-otp", controllers.HandleVerifyOtp)
	app.Post("/resident/forgot-password", controllers.HandleForgotPassword)
	app.Post("/resident/reset-password", controllers.HandleResetPassword)
}

func (h HttpRouter) registerReportRoutes(app *fiber.App, submitLimiter fiber.Handler) {
	app.Post("/report/submit", submitLimiter, controllers.HandleSubmitReport)
	app.Post("/report/upload", submitLimiter, controllers.HandleUploadReportFile)

	app.Get("/report", controllers.HandleResidentReports)
	app.Get("/report/:id", controllers.HandleGetReport)
	app.Patch("/report/:id", controllers.HandleUpdateReport)
	app.Delete("/report/:id", controllers.HandleDeleteReport)
	app.Post("/report/:id/files", controllers.HandleAddReportFile)
	app.Delete("/report/:id/files/:fileId", controllers.HandleRemoveReportFile)

	app.Get("/resident/reports", controllers.HandleResidentReports)
	app.Get("/resident/notifications", controllers.HandleResidentNotifications)
	app.Patch("/resident/notifications/:id/read", controllers.HandleMarkNotificationRead)
}

func (h HttpRouter) registerStaffRoutes(app *fiber.App) {
	staff := app.Group("/staff")
	staff.Get("/reports", controllers.HandleStaffListReports)
	staff.Get("/reports/:id", controllers.HandleStaffGetReport)
	staff.Put("/reports/:id/review", controllers.HandleStaffReviewReport)
	staff.Put("/reports/:id/verify", controllers.HandleStaffVerifyReport)
	staff.Put("/reports/:id/resolve", controllers.HandleStaffResolveReport)
	staff.Put("/reports/:id/close", controllers.HandleStaffCloseReport)
}

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	admin := app.Group("/admin")
	admin.Get("/reports", controllers.HandleAdminListReports)
	admin.Get("/reports/:id", controllers.HandleAdminGetReport)
	admin.Get("/users", controllers.HandleAdminListUsers)
	admin.Post("/users", controllers.HandleAdminCreateUser)
	admin.Get("/users/:id", controllers.HandleAdminGetUser)
	admin.Post("/users/:id/roles", controllers.HandleAdminAssignRole)
	admin.Patch("/users/:id/active", controllers.HandleAdminSetUserActive)
}
