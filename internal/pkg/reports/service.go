package reports

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/civiceye/CivicEye/app/models"
	"github.com/civiceye/CivicEye/app/repository"
)

// Service owns the report lifecycle: submission, reads, partial updates,
// status transitions, soft deletion and attachment metadata.
type Service struct {
	reports       repository.ReportRepository
	notifications repository.NotificationRepository
}

func NewService(reports repository.ReportRepository, notifications repository.NotificationRepository) *Service {
	return &Service{reports: reports, notifications: notifications}
}

// Submit creates a report with its file metadata in one transaction.
// A non-anonymous report without a resolvable reporter identity is rejected;
// an anonymous report never carries one.
func (s *Service) Submit(in SubmitInput) (*models.Report, error) {
	if in.Title == "" || in.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrInvalidInput)
	}
	if !in.IsAnonymous && in.ReporterID == "" {
		return nil, fmt.Errorf("%w: a reporter is required for non-anonymous reports", ErrInvalidInput)
	}

	report := &models.Report{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		IsAnonymous: in.IsAnonymous,
		Status:      models.ReportStatusSubmitted,
	}
	if !in.IsAnonymous {
		reporterID := in.ReporterID
		report.ReporterID = &reporterID
	}

	files := in.Files
	for i := range files {
		if files[i].ID == "" {
			files[i].ID = uuid.NewString()
		}
	}

	if err := s.reports.CreateWithFiles(report, files); err != nil {
		return nil, err
	}
	return report, nil
}

// GetByID returns a live report. Soft-deleted and nonexistent reports are
// indistinguishable.
func (s *Service) GetByID(id string) (*models.Report, error) {
	report, err := s.reports.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Update applies a partial patch of title/description/status and appends any
// new files. File removal is not possible through this path.
func (s *Service) Update(id string, in UpdateInput) (*models.Report, error) {
	report, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		if !models.IsValidReportStatus(*in.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *in.Status)
		}
		report.Status = *in.Status
	}
	if in.Title != nil {
		report.Title = *in.Title
	}
	if in.Description != nil {
		report.Description = *in.Description
	}

	if err := s.reports.Update(report); err != nil {
		return nil, err
	}

	if len(in.Files) > 0 {
		files := in.Files
		for i := range files {
			if files[i].ID == "" {
				files[i].ID = uuid.NewString()
			}
		}
		if err := s.reports.AddFiles(id, files); err != nil {
			return nil, err
		}
	}

	return s.GetByID(id)
}

// ChangeStatus moves a report to any status from the enumeration. There is no
// transition table; staff are trusted to jump states. When the report has a
// resolvable reporter, a notification row is written best-effort.
func (s *Service) ChangeStatus(id, newStatus, note string) (*models.Report, error) {
	if !models.IsValidReportStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, newStatus)
	}

	report, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	report.Status = newStatus
	if err := s.reports.Update(report); err != nil {
		return nil, err
	}

	s.notifyStatusChange(report, note)

	return report, nil
}

// notifyStatusChange writes the status-change notification. Failures are
// logged and swallowed: the status change is already committed and is not
// rolled back for a missed notification.
func (s *Service) notifyStatusChange(report *models.Report, note string) {
	if report.IsAnonymous || report.ReporterID == nil {
		return
	}

	content := fmt.Sprintf("Your report %q is now %s.", report.Title, report.Status)
	if note != "" {
		content += " Note: " + note
	}

	n := &models.Notification{
		UserID:      *report.ReporterID,
		Content:     content,
		ReferenceID: report.ID,
	}
	if err := s.notifications.Create(n); err != nil {
		log.Errorf("[Reports] failed to create status notification for report %s: %v", report.ID, err)
	}
}

// Delete soft-deletes a report. A second call finds nothing: the row is
// already excluded from reads.
func (s *Service) Delete(id string) error {
	err := s.reports.SoftDelete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// List filters and paginates live reports.
func (s *Service) List(q repository.ReportQuery) (*ListResult, error) {
	if q.Status != "" && !models.IsValidReportStatus(q.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, q.Status)
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = repository.DefaultPageSize
	}
	if q.Limit > repository.MaxPageSize {
		q.Limit = repository.MaxPageSize
	}

	items, total, err := s.reports.List(q)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: totalPages,
	}, nil
}

// ByReporter returns the live reports owned by an identity, newest first.
func (s *Service) ByReporter(reporterID string) ([]models.Report, error) {
	return s.reports.ByReporter(reporterID)
}

// AddFile appends one file-metadata row to an existing report.
func (s *Service) AddFile(reportID string, file models.ReportFile) (*models.ReportFile, error) {
	if _, err := s.GetByID(reportID); err != nil {
		return nil, err
	}
	if file.FileURL == "" {
		return nil, fmt.Errorf("%w: file_url is required", ErrInvalidInput)
	}
	if file.ID == "" {
		file.ID = uuid.NewString()
	}

	if err := s.reports.AddFiles(reportID, []models.ReportFile{file}); err != nil {
		return nil, err
	}
	return &file, nil
}

// RemoveFile deletes a file row only when it belongs to the given report and
// returns the removed metadata so the caller can clean up object storage.
// Zero matching rows is a NotFound, never a silent success.
func (s *Service) RemoveFile(reportID, fileID string) (*models.ReportFile, error) {
	file, err := s.reports.GetFile(reportID, fileID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.reports.DeleteFile(reportID, fileID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return file, nil
}
