package reports

import (
	"github.com/stretchr/testify/mock"

	"github.com/civiceye/CivicEye/app/models"
	"github.com/civiceye/CivicEye/app/repository"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) CreateWithFiles(report *models.Report, files []models.ReportFile) error {
	args := m.Called(report, files)
	return args.Error(0)
}

func (m *MockReportRepository) GetByID(id string) (*models.Report, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportRepository) Update(report *models.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockReportRepository) SoftDelete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockReportRepository) List(q repository.ReportQuery) ([]models.Report, int64, error) {
	args := m.Called(q)
	return args.Get(0).([]models.Report), args.Get(1).(int64), args.Error(2)
}

func (m *MockReportRepository) ByReporter(reporterID string) ([]models.Report, error) {
	args := m.Called(reporterID)
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockReportRepository) AddFiles(reportID string, files []models.ReportFile) error {
	args := m.Called(reportID, files)
	return args.Error(0)
}

func (m *MockReportRepository) GetFile(reportID, fileID string) (*models.ReportFile, error) {
	args := m.Called(reportID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReportFile), args.Error(1)
}

func (m *MockReportRepository) DeleteFile(reportID, fileID string) (int64, error) {
	args := m.Called(reportID, fileID)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(notification *models.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ByUser(userID string, offset, limit int) ([]models.Notification, error) {
	args := m.Called(userID, offset, limit)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(id uint, userID string) (int64, error) {
	args := m.Called(id, userID)
	return args.Get(0).(int64), args.Error(1)
}
