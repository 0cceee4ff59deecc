package controllers

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/civiceye/CivicEye/app/models"
	"github.com/civiceye/CivicEye/internal/pkg/reports"
	"github.com/civiceye/CivicEye/internal/pkg/usercontext"
)

type reportFileInput struct {
	FileURL  string `json:"file_url"`
	FileType string `json:"file_type"`
	MimeType string `json:"mime_type"`
	FilePath string `json:"file_path"`
}

type submitReportRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	IsAnonymous bool              `json:"is_anonymous"`
	ReporterID  string            `json:"reporter_id"`
	Files       []reportFileInput `json:"files"`
}

func toReportFiles(inputs []reportFileInput) []models.ReportFile {
	files := make([]models.ReportFile, 0, len(inputs))
	for _, f := range inputs {
		files = append(files, models.ReportFile{
			FileURL:  f.FileURL,
			FileType: f.FileType,
			MimeType: f.MimeType,
			FilePath: f.FilePath,
		})
	}
	return files
}

// HandleSubmitReport accepts a new incident report. The route is open so
// anonymous submissions work without an account, but a claimed reporter
// identity must match the authenticated caller.
func HandleSubmitReport(c *fiber.Ctx) error {
	var req submitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	uc := usercontext.GetUserContext(c)
	if req.ReporterID != "" && req.ReporterID != uc.UserID {
		return forbidden(c, "You cannot submit a report on behalf of another user")
	}

	reporterID := req.ReporterID
	if reporterID == "" {
		reporterID = uc.UserID
	}

	report, err := getReportsService().Submit(reports.SubmitInput{
		Title:       req.Title,
		Description: req.Description,
		IsAnonymous: req.IsAnonymous,
		ReporterID:  reporterID,
		Files:       toReportFiles(req.Files),
	})
	if err != nil {
		if errors.Is(err, reports.ErrInvalidInput) {
			return badRequest(c, err.Error())
		}
		return internalError(c, "Failed to submit report")
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// HandleResidentReports lists the authenticated resident's own reports.
func HandleResidentReports(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if !uc.IsLoggedIn {
		return unauthorized(c, "Authentication required")
	}

	items, err := getReportsService().ByReporter(uc.UserID)
	if err != nil {
		return internalError(c, "Failed to load reports")
	}
	return c.JSON(fiber.Map{"items": items, "total": len(items)})
}

// loadOwnedReport fetches a report and enforces ownership. Staff and admin
// identities bypass the ownership check; they have their own read surfaces
// but may follow resident links.
func loadOwnedReport(c *fiber.Ctx) (*models.Report, error) {
	uc := usercontext.GetUserContext(c)
	if !uc.IsLoggedIn {
		return nil, unauthorized(c, "Authentication required")
	}

	report, err := getReportsService().GetByID(c.Params("id"))
	if errors.Is(err, reports.ErrNotFound) {
		return nil, notFound(c, "Report not found")
	}
	if err != nil {
		return nil, internalError(c, "Failed to load report")
	}

	if uc.HasRole(models.RoleStaff) || uc.HasRole(models.RoleAdmin) {
		return report, nil
	}
	if !report.OwnedBy(uc.UserID) {
		return nil, forbidden(c, "You do not have access to this report")
	}
	return report, nil
}

// HandleGetReport returns one report for its owner.
func HandleGetReport(c *fiber.Ctx) error {
	report, err := loadOwnedReport(c)
	if report == nil {
		return err
	}
	return c.JSON(report)
}

type updateReportRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Status      *string           `json:"status"`
	Files       []reportFileInput `json:"files"`
}

// HandleUpdateReport lets the owner patch title, description and attachments.
// Status is off-limits here, and reports in a final status are frozen.
func HandleUpdateReport(c *fiber.Ctx) error {
	report, errResp := loadOwnedReport(c)
	if report == nil {
		return errResp
	}

	var req updateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Status != nil {
		return forbidden(c, "Residents cannot change the report status")
	}
	if report.IsFinal() {
		return forbidden(c, "Reports with status "+report.Status+" can no longer be edited")
	}

	updated, err := getReportsService().Update(report.ID, reports.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Files:       toReportFiles(req.Files),
	})
	if err != nil {
		if errors.Is(err, reports.ErrInvalidInput) {
			return badRequest(c, err.Error())
		}
		return internalError(c, "Failed to update report")
	}
	return c.JSON(updated)
}

// HandleDeleteReport soft-deletes an owned report that has not yet entered
// triage.
func HandleDeleteReport(c *fiber.Ctx) error {
	report, errResp := loadOwnedReport(c)
	if report == nil {
		return errResp
	}

	if report.Status != models.ReportStatusSubmitted {
		return badRequest(c, "Only reports with status Submitted can be deleted")
	}

	if err := getReportsService().Delete(report.ID); err != nil {
		if errors.Is(err, reports.ErrNotFound) {
			return notFound(c, "Report not found")
		}
		return internalError(c, "Failed to delete report")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUploadReportFile streams one attachment into object storage and
// returns the metadata the client includes in a subsequent submit or patch.
func HandleUploadReportFile(c *fiber.Ctx) error {
	if storageClient == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "uploads_disabled", "Attachment uploads are not available")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "A file form field is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return internalError(c, "Failed to read upload")
	}
	defer src.Close()

	fileID := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")
	objectKey := storageClient.ObjectKey(fileID, ext)

	result, err := storageClient.Upload(c.Context(), objectKey, src, contentType, fileHeader.Size)
	if err != nil {
		log.Errorf("[Report] attachment upload failed: %v", err)
		return internalError(c, "Failed to store attachment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":        fileID,
		"file_url":  result.URL,
		"file_type": strings.TrimPrefix(ext, "."),
		"mime_type": result.ContentType,
		"file_path": result.ObjectKey,
	})
}

// HandleAddReportFile appends already-uploaded attachment metadata to a report.
func HandleAddReportFile(c *fiber.Ctx) error {
	report, errResp := loadOwnedReport(c)
	if report == nil {
		return errResp
	}
	if report.IsFinal() {
		return forbidden(c, "Reports with status "+report.Status+" can no longer be edited")
	}

	var req reportFileInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	file, err := getReportsService().AddFile(report.ID, models.ReportFile{
		FileURL:  req.FileURL,
		FileType: req.FileType,
		MimeType: req.MimeType,
		FilePath: req.FilePath,
	})
	if err != nil {
		if errors.Is(err, reports.ErrInvalidInput) {
			return badRequest(c, err.Error())
		}
		if errors.Is(err, reports.ErrNotFound) {
			return notFound(c, "Report not found")
		}
		return internalError(c, "Failed to attach file")
	}
	return c.Status(fiber.StatusCreated).JSON(file)
}

// HandleRemoveReportFile detaches an attachment and cleans up its stored
// object best-effort.
func HandleRemoveReportFile(c *fiber.Ctx) error {
	report, errResp := loadOwnedReport(c)
	if report == nil {
		return errResp
	}

	file, err := getReportsService().RemoveFile(report.ID, c.Params("fileId"))
	if err != nil {
		if errors.Is(err, reports.ErrNotFound) {
			return notFound(c, "File not found")
		}
		return internalError(c, "Failed to remove file")
	}

	if storageClient != nil && file.FilePath != "" {
		if err := storageClient.Delete(c.Context(), file.FilePath); err != nil {
			log.Errorf("[Report] failed to delete stored object %s: %v", file.FilePath, err)
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}
