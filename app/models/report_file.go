package models

import (
	"time"
)

// ReportFile is attachment metadata owned by exactly one report. The binary
// itself lives in object storage; FilePath is the object key there.
type ReportFile struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ReportID  string    `gorm:"type:varchar(36);index;not null" json:"report_id"`
	FileURL   string    `gorm:"type:varchar(500);not null" json:"file_url"`
	FileType  string    `gorm:"type:varchar(50)" json:"file_type"`
	MimeType  string    `gorm:"type:varchar(100)" json:"mime_type"`
	FilePath  string    `gorm:"type:varchar(500)" json:"file_path"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
