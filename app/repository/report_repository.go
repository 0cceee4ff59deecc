package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/civiceye/CivicEye/app/models"
)

// Pagination bounds for report listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// sortableColumns whitelists caller-specified sort fields.
var sortableColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
	"status":     "status",
}

// reportRepository implements the ReportRepository interface
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository instance
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// CreateWithFiles creates the report row and its file metadata atomically.
func (r *reportRepository) CreateWithFiles(report *models.Report, files []models.ReportFile) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return err
		}
		for i := range files {
			files[i].ReportID = report.ID
		}
		if len(files) > 0 {
			if err := tx.Create(&files).Error; err != nil {
				return err
			}
		}
		report.Files = files
		return nil
	})
}

// GetByID retrieves a live report with its files. Soft-deleted rows are
// excluded by gorm.DeletedAt, so a deleted report reads as absent.
func (r *reportRepository) GetByID(id string) (*models.Report, error) {
	var report models.Report
	err := r.db.Preload("Files").First(&report, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Update saves changes to an existing report
func (r *reportRepository) Update(report *models.Report) error {
	return r.db.Save(report).Error
}

// SoftDelete sets the deletion timestamp; the row is never removed.
func (r *reportRepository) SoftDelete(id string) error {
	res := r.db.Delete(&models.Report{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List filters, sorts and paginates live reports.
func (r *reportRepository) List(q ReportQuery) ([]models.Report, int64, error) {
	query := r.db.Model(&models.Report{})

	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.ReporterID != "" {
		query = query.Where("reporter_id = ?", q.ReporterID)
	}
	if q.Search != "" {
		like := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	order := "created_at DESC"
	if col, ok := sortableColumns[q.SortBy]; ok {
		dir := "ASC"
		if strings.EqualFold(q.SortOrder, "desc") {
			dir = "DESC"
		}
		order = col + " " + dir
	}

	var reports []models.Report
	err := query.Preload("Files").
		Order(order).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// ByReporter returns the live reports owned by an identity, newest first.
func (r *reportRepository) ByReporter(reporterID string) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.Preload("Files").
		Where("reporter_id = ?", reporterID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

// AddFiles appends file metadata rows to an existing report.
func (r *reportRepository) AddFiles(reportID string, files []models.ReportFile) error {
	if len(files) == 0 {
		return nil
	}
	for i := range files {
		files[i].ReportID = reportID
	}
	return r.db.Create(&files).Error
}

// GetFile retrieves a file only when it belongs to the given report.
func (r *reportRepository) GetFile(reportID, fileID string) (*models.ReportFile, error) {
	var file models.ReportFile
	err := r.db.Where("id = ? AND report_id = ?", fileID, reportID).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// DeleteFile removes a file row matching both IDs and reports how many rows
// went away; deleting zero rows is the caller's NotFound signal.
func (r *reportRepository) DeleteFile(reportID, fileID string) (int64, error) {
	res := r.db.Where("id = ? AND report_id = ?", fileID, reportID).Delete(&models.ReportFile{})
	return res.RowsAffected, res.Error
}
