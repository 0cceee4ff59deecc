package reports

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/civiceye/CivicEye/app/models"
	"github.com/civiceye/CivicEye/app/repository"
)

func newTestService() (*Service, *MockReportRepository, *MockNotificationRepository) {
	reportRepo := new(MockReportRepository)
	notifRepo := new(MockNotificationRepository)
	return NewService(reportRepo, notifRepo), reportRepo, notifRepo
}

func TestSubmitNonAnonymousRequiresReporter(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Submit(SubmitInput{
		Title:       "Tires dumped at canal",
		Description: "A pile of car tires behind the towpath",
		IsAnonymous: false,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitRequiresTitleAndDescription(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Submit(SubmitInput{Description: "x", IsAnonymous: true})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Submit(SubmitInput{Title: "x", IsAnonymous: true})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitAnonymousStripsReporter(t *testing.T) {
	svc, reportRepo, _ := newTestService()

	reportRepo.On("CreateWithFiles", mock.Anything, mock.Anything).Return(nil)

	// Even when a reporter identity is available, anonymous submissions
	// must not attach it.
	report, err := svc.Submit(SubmitInput{
		Title:       "X",
		Description: "Y",
		IsAnonymous: true,
		ReporterID:  "aB3dE5fG",
	})
	require.NoError(t, err)
	assert.Nil(t, report.ReporterID)
	assert.True(t, report.IsAnonymous)
	assert.Equal(t, models.ReportStatusSubmitted, report.Status)
	assert.NotEmpty(t, report.ID)
}

func TestSubmitAssignsFileIDs(t *testing.T) {
	svc, reportRepo, _ := newTestService()

	var captured []models.ReportFile
	reportRepo.On("CreateWithFiles", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).([]models.ReportFile)
		}).
		Return(nil)

	_, err := svc.Submit(SubmitInput{
		Title:       "Drums leaking near creek",
		Description: "Rusted drums with unknown liquid",
		ReporterID:  "aB3dE5fG",
		Files: []models.ReportFile{
			{FileURL: "https://cdn.example/reports/a.jpg", MimeType: "image/jpeg"},
		},
	})
	require.NoError(t, err)
	require.Len(t, captured, 1)
	assert.NotEmpty(t, captured[0].ID)
}

func TestGetByIDNotFound(t *testing.T) {
	svc, reportRepo, _ := newTestService()

	reportRepo.On("GetByID", "missing").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	svc, reportRepo, _ := newTestService()

	reportRepo.On("GetByID", "r1").Return(&models.Report{ID: "r1", Status: models.ReportStatusSubmitted}, nil)

	bogus := "Vanished"
	_, err := svc.Update("r1", UpdateInput{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateAppliesPartialPatch(t *testing.T) {
	svc, reportRepo, _ := newTestService()

	stored := &models.Report{
		ID:          "r1",
		Title:       "Old title",
		Description: "Old description",
		Status:      models.ReportStatusSubmitted,
	}
	reportRepo.On("GetByID", "r1").Return(stored, nil)
	reportRepo.On("Update", mock.Anything).Return(nil)

	newTitle := "New title"
	updated, err := svc.Update("r1", UpdateInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "Old description", updated.Description)
}

func TestChangeStatusNotifiesReporter(t *testing.T) {
	svc, reportRepo, notifRepo := newTestService()

	reporterID := "aB3dE5fG"
	reportRepo.On("GetByID", "r1").Return(&models.Report{
		ID:         "r1",
		Title:      "Tires dumped at canal",
		Status:     models.ReportStatusSubmitted,
		ReporterID: &reporterID,
	}, nil)
	reportRepo.On("Update", mock.Anything).Return(nil)

	var captured *models.Notification
	notifRepo.On("Create", mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(0).(*models.Notification)
		}).
		Return(nil)

	report, err := svc.ChangeStatus("r1", models.ReportStatusUnderReview, "crew dispatched")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusUnderReview, report.Status)

	require.NotNil(t, captured)
	assert.Equal(t, reporterID, captured.UserID)
	assert.Equal(t, "r1", captured.ReferenceID)
	assert.Contains(t, captured.Content, "UnderReview")
	assert.Contains(t, captured.Content, "crew dispatched")
}

func TestChangeStatusAnonymousCreatesNoNotification(t *testing.T) {
	svc, reportRepo, notifRepo := newTestService()

	reportRepo.On("GetByID", "r1").Return(&models.Report{
		ID:          "r1",
		Title:       "X",
		Status:      models.ReportStatusSubmitted,
		IsAnonymous: true,
	}, nil)
	reportRepo.On("Update", mock.Anything).Return(nil)

	report, err := svc.ChangeStatus("r1", models.ReportStatusResolved, "")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusResolved, report.Status)

	notifRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestChangeStatusNotificationFailureIsSwallowed(t *testing.T) {
	svc, reportRepo, notifRepo := newTestService()

	reporterID := "aB3dE5fG"
	reportRepo.On("GetByID", "r1").Return(&models.Report{
		ID:         "r1",
		Title:      "X",
		Status:     models.ReportStatusVerified,
		ReporterID: &reporterID,
	}, nil)
	reportRepo.On("Update", mock.Anything).Return(nil)
	notifRepo.On("Create", mock.Anything).Return(errors.New("notification table on fire"))

	// Best-effort side effect: the status change itself must succeed.
	report, err := svc.ChangeStatus("r1", models.ReportStatusResolved, "")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusResolved, report.Status)
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ChangeStatus("r1", "Shredded", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteSecondCallIsNotFound(t *testing.T) {
	svc, reportRepo, _ := newTestService()

	reportRepo.On("SoftDelete", "r1").Return(nil).Once()
	reportRepo.On("SoftDelete", "r1").Return(gorm.ErrRecordNotFound)

	require.NoError(t, svc.Delete("r1"))
	assert.ErrorIs(t, svc.Delete("r1"), ErrNotFound)
}

func TestListPaginationMath(t *testing.T) {
	svc, reportRepo, _ := newTestService()

	reportRepo.On("List", mock.Anything).Return([]models.Report{}, int64(41), nil)

	res, err := svc.List(repository.ReportQuery{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 10, res.Limit)
	assert.Equal(t, int64(41), res.Total)
	assert.Equal(t, 5, res.TotalPages) // ceil(41/10)
}

func TestListNormalizesPageAndLimit(t *testing.T) {
	svc, reportRepo, _ := newTestService()

	var captured repository.ReportQuery
	reportRepo.On("List", mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(0).(repository.ReportQuery)
		}).
		Return([]models.Report{}, int64(0), nil)

	res, err := svc.List(repository.ReportQuery{Page: 0, Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, 1, captured.Page)
	assert.Equal(t, repository.MaxPageSize, captured.Limit)
	assert.Equal(t, 0, res.TotalPages)
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.List(repository.ReportQuery{Status: "Imaginary"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRemoveFileWrongReportIsNotFound(t *testing.T) {
	svc, reportRepo, _ := newTestService()

	reportRepo.On("GetFile", "other-report", "f1").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.RemoveFile("other-report", "f1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveFileReturnsMetadata(t *testing.T) {
	svc, reportRepo, _ := newTestService()

	reportRepo.On("GetFile", "r1", "f1").Return(&models.ReportFile{
		ID:       "f1",
		ReportID: "r1",
		FilePath: "reports/2026/08/f1.jpg",
	}, nil)
	reportRepo.On("DeleteFile", "r1", "f1").Return(int64(1), nil)

	file, err := svc.RemoveFile("r1", "f1")
	require.NoError(t, err)
	assert.Equal(t, "reports/2026/08/f1.jpg", file.FilePath)
}
