package controllers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/civiceye/CivicEye/app/models"
	"github.com/civiceye/CivicEye/app/repository"
	"github.com/civiceye/CivicEye/internal/pkg/mail"
	"github.com/civiceye/CivicEye/internal/pkg/otp"
	"github.com/civiceye/CivicEye/internal/pkg/password"
)

var validate = validator.New()

type registerRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// HandleResidentRegister starts a resident registration. No account row is
// written yet; the profile is parked with a one-time code and only
// materialized once the code is verified.
func HandleResidentRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.FirstName == "" || req.LastName == "" {
		return badRequest(c, "First name and last name are required")
	}
	if err := validate.Var(req.Email, "required,email"); err != nil {
		return badRequest(c, "email: Must be a valid email address")
	}
	if violations := password.ValidateStrength(req.Password); len(violations) > 0 {
		return badRequest(c, password.StrengthError("password", violations))
	}
	if !password.Match(req.Password, req.ConfirmPassword) {
		return badRequest(c, "confirm_password: Passwords do not match")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	if existing, err := userRepo.GetByEmail(req.Email); err == nil && existing != nil {
		return badRequest(c, "Email is already registered")
	}

	hash, err := models.HashPassword(req.Password)
	if err != nil {
		return internalError(c, "Registration failed")
	}

	code, err := otp.Generate()
	if err != nil {
		return internalError(c, "Registration failed")
	}

	rec := otp.Record{
		Code:           code,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		HashedPassword: hash,
	}
	if err := getOtpStore().Put(c.Context(), otp.PurposeRegistration, req.Email, rec); err != nil {
		return internalError(c, "Registration failed")
	}

	if err := mail.SendOtpEmail(req.Email, req.FirstName, req.LastName, code, otp.PurposeRegistration); err != nil {
		log.Errorf("[Register] failed to send OTP email to %s: %v", req.Email, err)
	}

	return c.JSON(fiber.Map{"message": "An OTP has been sent to your email address"})
}

type verifyOtpRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

// HandleVerifyOtp completes a pending registration. The code is single-use;
// on match the parked profile becomes a resident account.
func HandleVerifyOtp(c *fiber.Ctx) error {
	var req verifyOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Otp == "" {
		return badRequest(c, "Email and otp are required")
	}

	rec, ok := getOtpStore().Verify(c.Context(), otp.PurposeRegistration, req.Email, req.Otp)
	if !ok {
		return badRequest(c, "Invalid or expired OTP")
	}

	user, err := models.NewUser(rec.FirstName, rec.LastName, req.Email, "")
	if err != nil {
		return internalError(c, "Registration failed")
	}
	user.SetHashedPassword(rec.HashedPassword)

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	if err := userRepo.Create(user); err != nil {
		// Covers the registration race where the email got taken between
		// request and verification.
		return badRequest(c, "Email is already registered")
	}
	if err := userRepo.AssignRole(user.ID, models.RoleResident); err != nil {
		return internalError(c, "Registration failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Registration successful"})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// HandleForgotPassword starts a password reset. The response is identical
// whether or not the account exists.
func HandleForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Var(req.Email, "required,email"); err != nil {
		return badRequest(c, "email: Must be a valid email address")
	}

	neutral := fiber.Map{"message": "If the email is registered, an OTP has been sent"}

	user, err := repository.GetGlobalFactory().GetUserRepository().GetByEmail(req.Email)
	if err != nil || user == nil || !user.IsActive {
		return c.JSON(neutral)
	}

	code, err := otp.Generate()
	if err != nil {
		return internalError(c, "Password reset failed")
	}
	rec := otp.Record{Code: code, FirstName: user.FirstName, LastName: user.LastName}
	if err := getOtpStore().Put(c.Context(), otp.PurposeResetPassword, req.Email, rec); err != nil {
		return internalError(c, "Password reset failed")
	}

	if err := mail.SendOtpEmail(req.Email, user.FirstName, user.LastName, code, otp.PurposeResetPassword); err != nil {
		log.Errorf("[Register] failed to send reset OTP email to %s: %v", req.Email, err)
	}

	return c.JSON(neutral)
}

type resetPasswordRequest struct {
	Email           string `json:"email"`
	Otp             string `json:"otp"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// HandleResetPassword completes a password reset with a verified code.
func HandleResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Otp == "" {
		return badRequest(c, "Email and otp are required")
	}
	if violations := password.ValidateStrength(req.NewPassword); len(violations) > 0 {
		return badRequest(c, password.StrengthError("new_password", violations))
	}
	if !password.Match(req.NewPassword, req.ConfirmPassword) {
		return badRequest(c, "confirm_password: Passwords do not match")
	}

	if _, ok := getOtpStore().Verify(c.Context(), otp.PurposeResetPassword, req.Email, req.Otp); !ok {
		return badRequest(c, "Invalid or expired OTP")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByEmail(req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) || user == nil {
		return badRequest(c, "Invalid or expired OTP")
	}
	if err != nil {
		return internalError(c, "Password reset failed")
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return internalError(c, "Password reset failed")
	}
	if err := userRepo.Update(user); err != nil {
		return internalError(c, "Password reset failed")
	}

	return c.JSON(fiber.Map{"message": "Password reset successful"})
}
