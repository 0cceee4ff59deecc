package reports

import (
	"errors"

	"github.com/civiceye/CivicEye/app/models"
)

var (
	// ErrInvalidInput rejects malformed or policy-violating submissions.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound covers both absent and soft-deleted reports; callers must
	// not be able to tell the two apart.
	ErrNotFound = errors.New("report not found")
)

// SubmitInput carries a new report. ReporterID is the resolved reporter
// identity (explicit field or authenticated caller); it is ignored for
// anonymous submissions.
type SubmitInput struct {
	Title       string
	Description string
	IsAnonymous bool
	Files       []models.ReportFile
	ReporterID  string
}

// UpdateInput is a partial patch. Nil fields are left untouched; Files are
// appended, never removed, through this path.
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *string
	Files       []models.ReportFile
}

// ListResult is a paginated report listing.
type ListResult struct {
	Items      []models.Report `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}
