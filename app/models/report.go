package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ReportStatusSubmitted   = "Submitted"
	ReportStatusUnderReview = "UnderReview"
	ReportStatusVerified    = "Verified"
	ReportStatusResolved    = "Resolved"
	ReportStatusClosed      = "Closed"
)

// ReportStatuses lists the status enumeration in its ordered progression.
// Transitions are not restricted to that order; staff may jump states.
var ReportStatuses = []string{
	ReportStatusSubmitted,
	ReportStatusUnderReview,
	ReportStatusVerified,
	ReportStatusResolved,
	ReportStatusClosed,
}

// Report is an incident report filed by a resident or anonymously. Anonymous
// reports never carry a reporter reference.
type Report struct {
	ID          string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	IsAnonymous bool           `gorm:"default:false" json:"is_anonymous"`
	Status      string         `gorm:"type:varchar(20);default:'Submitted';index" json:"status"`
	ReporterID  *string        `gorm:"type:varchar(8);index" json:"reporter_id,omitempty"`
	Reporter    *User          `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	Files       []ReportFile   `gorm:"foreignKey:ReportID" json:"files,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsValidReportStatus reports whether status is part of the enumeration.
func IsValidReportStatus(status string) bool {
	for _, s := range ReportStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsFinal reports whether the report reached a state residents may no longer edit.
func (r *Report) IsFinal() bool {
	return r.Status == ReportStatusResolved || r.Status == ReportStatusClosed
}

// OwnedBy reports whether the given user owns this report. Anonymous reports
// are ownerless by construction.
func (r *Report) OwnedBy(userID string) bool {
	return r.ReporterID != nil && *r.ReporterID == userID
}
