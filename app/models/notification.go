package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification is a message for a user, created as a side effect of a status
// change on a non-anonymous report. Delivery is not modeled; rows are
// fire-and-forget.
type Notification struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      string         `gorm:"type:varchar(8);index" json:"user_id"`
	Content     string         `gorm:"type:text" json:"content"`
	IsRead      bool           `gorm:"default:false" json:"is_read"`
	ReferenceID string         `gorm:"type:varchar(36)" json:"reference_id"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
