package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	RoleResident = "Resident"
	RoleStaff    = "Staff"
	RoleAdmin    = "Admin"
)

// ValidRoles is the closed role enumeration.
var ValidRoles = []string{RoleResident, RoleStaff, RoleAdmin}

// UserRole assigns one role to a user. The (UserID, Role) pair is unique; a
// user may hold several roles at once.
type UserRole struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"type:varchar(8);uniqueIndex:idx_user_role;not null" json:"user_id"`
	Role      string    `gorm:"type:varchar(20);uniqueIndex:idx_user_role;not null" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsValidRole reports whether role is part of the closed enumeration.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// AssignRole grants a role to a user. Re-assigning an existing role is a no-op
// (upsert on the unique pair), not an error.
func AssignRole(db *gorm.DB, userID, role string) error {
	assignment := UserRole{UserID: userID, Role: role}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&assignment).Error
}
