package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civiceye/CivicEye/app/repository"
	"github.com/civiceye/CivicEye/internal/pkg/usercontext"
)

// HandleResidentNotifications lists the caller's status-change notifications,
// newest first.
func HandleResidentNotifications(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if !uc.IsLoggedIn {
		return unauthorized(c, "Authentication required")
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

	items, err := repository.GetGlobalFactory().GetNotificationRepository().
		ByUser(uc.UserID, (page-1)*limit, limit)
	if err != nil {
		return internalError(c, "Failed to load notifications")
	}

	return c.JSON(fiber.Map{
		"items": items,
		"page":  page,
		"limit": limit,
	})
}

// HandleMarkNotificationRead flags one of the caller's notifications as read.
func HandleMarkNotificationRead(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if !uc.IsLoggedIn {
		return unauthorized(c, "Authentication required")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid notification id")
	}

	rows, err := repository.GetGlobalFactory().GetNotificationRepository().
		MarkRead(uint(id), uc.UserID)
	if err != nil {
		return internalError(c, "Failed to update notification")
	}
	if rows == 0 {
		return notFound(c, "Notification not found")
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}
