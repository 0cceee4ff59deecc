package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/civiceye/CivicEye/app/models"
	"github.com/civiceye/CivicEye/app/repository"
	"github.com/civiceye/CivicEye/internal/pkg/password"
)

// HandleAdminListReports gives administrators the same triage listing staff
// have.
func HandleAdminListReports(c *fiber.Ctx) error {
	return listReports(c)
}

// HandleAdminGetReport returns any report by ID.
func HandleAdminGetReport(c *fiber.Ctx) error {
	return HandleStaffGetReport(c)
}

// HandleAdminListUsers lists accounts with optional search and pagination.
func HandleAdminListUsers(c *fiber.Ctx) error {
	userRepo := repository.GetGlobalFactory().GetUserRepository()

	if query := c.Query("search"); query != "" {
		users, err := userRepo.Search(query)
		if err != nil {
			return internalError(c, "Failed to search users")
		}
		return c.JSON(fiber.Map{"items": users, "total": len(users)})
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", repository.DefaultPageSize)
	if limit < 1 {
		limit = repository.DefaultPageSize
	}
	if limit > repository.MaxPageSize {
		limit = repository.MaxPageSize
	}

	users, err := userRepo.List((page-1)*limit, limit)
	if err != nil {
		return internalError(c, "Failed to load users")
	}
	total, err := userRepo.Count()
	if err != nil {
		return internalError(c, "Failed to load users")
	}

	return c.JSON(fiber.Map{
		"items": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// HandleAdminGetUser returns one account with its roles.
func HandleAdminGetUser(c *fiber.Ctx) error {
	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(c.Params("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "User not found")
	}
	if err != nil {
		return internalError(c, "Failed to load user")
	}
	return c.JSON(user)
}

type createUserRequest struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Roles     []string `json:"roles"`
}

// HandleAdminCreateUser provisions a staff or admin account directly, without
// the OTP registration flow.
func HandleAdminCreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := validate.Var(req.Email, "required,email"); err != nil {
		return badRequest(c, "email: Must be a valid email address")
	}
	if violations := password.ValidateStrength(req.Password); len(violations) > 0 {
		return badRequest(c, password.StrengthError("password", violations))
	}
	if len(req.Roles) == 0 {
		return badRequest(c, "At least one role is required")
	}
	for _, role := range req.Roles {
		if !models.IsValidRole(role) {
			return badRequest(c, "Unknown role "+role)
		}
	}

	user, err := models.NewUser(req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		return badRequest(c, "Invalid user data")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	if err := userRepo.Create(user); err != nil {
		return badRequest(c, "Email is already registered")
	}
	for _, role := range req.Roles {
		if err := userRepo.AssignRole(user.ID, role); err != nil {
			return internalError(c, "Failed to assign role")
		}
	}

	created, err := userRepo.GetByID(user.ID)
	if err != nil {
		return internalError(c, "Failed to load user")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

type assignRoleRequest struct {
	Role string `json:"role"`
}

// HandleAdminAssignRole grants an additional role to an account. Granting a
// role the account already holds is a no-op.
func HandleAdminAssignRole(c *fiber.Ctx) error {
	var req assignRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if !models.IsValidRole(req.Role) {
		return badRequest(c, "Unknown role "+req.Role)
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByID(c.Params("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "User not found")
	}
	if err != nil {
		return internalError(c, "Failed to load user")
	}

	if err := userRepo.AssignRole(user.ID, req.Role); err != nil {
		return internalError(c, "Failed to assign role")
	}

	updated, err := userRepo.GetByID(user.ID)
	if err != nil {
		return internalError(c, "Failed to load user")
	}
	return c.JSON(updated)
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

// HandleAdminSetUserActive activates or deactivates an account. Deactivated
// accounts keep their rows but can no longer log in.
func HandleAdminSetUserActive(c *fiber.Ctx) error {
	var req setActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.IsActive == nil {
		return badRequest(c, "is_active is required")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByID(c.Params("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "User not found")
	}
	if err != nil {
		return internalError(c, "Failed to load user")
	}

	user.IsActive = *req.IsActive
	if err := userRepo.Update(user); err != nil {
		return internalError(c, "Failed to update user")
	}
	return c.JSON(user)
}
