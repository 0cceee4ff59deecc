package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/civiceye/CivicEye/app/models"
	"github.com/civiceye/CivicEye/app/repository"
	"github.com/civiceye/CivicEye/internal/pkg/reports"
)

// HandleStaffListReports lists reports across all residents with filtering,
// search, sorting and pagination.
func HandleStaffListReports(c *fiber.Ctx) error {
	return listReports(c)
}

// listReports is shared by the staff and admin triage surfaces.
func listReports(c *fiber.Ctx) error {
	q := repository.ReportQuery{
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", repository.DefaultPageSize),
	}

	result, err := getReportsService().List(q)
	if err != nil {
		if errors.Is(err, reports.ErrInvalidInput) {
			return badRequest(c, err.Error())
		}
		return internalError(c, "Failed to load reports")
	}
	return c.JSON(result)
}

// HandleStaffGetReport returns any report by ID, ownership regardless.
func HandleStaffGetReport(c *fiber.Ctx) error {
	report, err := getReportsService().GetByID(c.Params("id"))
	if errors.Is(err, reports.ErrNotFound) {
		return notFound(c, "Report not found")
	}
	if err != nil {
		return internalError(c, "Failed to load report")
	}
	return c.JSON(report)
}

type statusChangeRequest struct {
	Note string `json:"note"`
}

// HandleStaffReviewReport moves a report into triage.
func HandleStaffReviewReport(c *fiber.Ctx) error {
	return changeReportStatus(c, models.ReportStatusUnderReview)
}

// HandleStaffVerifyReport confirms a report as a genuine violation.
func HandleStaffVerifyReport(c *fiber.Ctx) error {
	return changeReportStatus(c, models.ReportStatusVerified)
}

// HandleStaffResolveReport marks the underlying issue as handled.
func HandleStaffResolveReport(c *fiber.Ctx) error {
	return changeReportStatus(c, models.ReportStatusResolved)
}

// HandleStaffCloseReport closes a report without further action.
func HandleStaffCloseReport(c *fiber.Ctx) error {
	return changeReportStatus(c, models.ReportStatusClosed)
}

func changeReportStatus(c *fiber.Ctx, status string) error {
	var req statusChangeRequest
	// The note body is optional; a missing or empty body is fine.
	_ = c.BodyParser(&req)

	report, err := getReportsService().ChangeStatus(c.Params("id"), status, req.Note)
	if err != nil {
		if errors.Is(err, reports.ErrNotFound) {
			return notFound(c, "Report not found")
		}
		if errors.Is(err, reports.ErrInvalidInput) {
			return badRequest(c, err.Error())
		}
		return internalError(c, "Failed to update report status")
	}
	return c.JSON(report)
}
