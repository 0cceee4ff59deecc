package repository

import (
	"gorm.io/gorm"

	"github.com/civiceye/CivicEye/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetActiveByEmailAndRole(email, role string) (*models.User, error)
	Update(user *models.User) error
	AssignRole(userID, role string) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
}

// ReportQuery filters and paginates report listings. Page is 1-based.
type ReportQuery struct {
	Status     string
	ReporterID string
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

// ReportRepository defines the interface for report-related database
// operations. All reads exclude soft-deleted rows.
type ReportRepository interface {
	CreateWithFiles(report *models.Report, files []models.ReportFile) error
	GetByID(id string) (*models.Report, error)
	Update(report *models.Report) error
	SoftDelete(id string) error
	List(q ReportQuery) ([]models.Report, int64, error)
	ByReporter(reporterID string) ([]models.Report, error)
	AddFiles(reportID string, files []models.ReportFile) error
	GetFile(reportID, fileID string) (*models.ReportFile, error)
	DeleteFile(reportID, fileID string) (int64, error)
}

// NotificationRepository defines the interface for notification rows.
type NotificationRepository interface {
	Create(notification *models.Notification) error
	ByUser(userID string, offset, limit int) ([]models.Notification, error)
	MarkRead(id uint, userID string) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Report       ReportRepository
	Notification NotificationRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Report:       NewReportRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
