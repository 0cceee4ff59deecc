package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/civiceye/CivicEye/internal/pkg/shortid"
)

// UserIDLength is the length of the generated opaque account ID. Collisions are
// not checked; the keyspace (62^8) is large enough for the expected volume.
const UserIDLength = 8

type User struct {
	ID        string         `gorm:"primaryKey;type:varchar(8)" json:"id"`
	FirstName string         `gorm:"type:varchar(100)" json:"first_name" validate:"required,min=1,max=100"`
	LastName  string         `gorm:"type:varchar(100)" json:"last_name" validate:"required,min=1,max=100"`
	Email     *string        `gorm:"uniqueIndex;type:varchar(200)" json:"email,omitempty" validate:"omitempty,email,min=5,max=200"`
	Password  *string        `gorm:"type:text" json:"-"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	Roles     []UserRole     `gorm:"foreignKey:UserID" json:"roles,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// NewUser builds an active user with a generated ID and a bcrypt password hash.
func NewUser(firstName, lastName, email, password string) (*User, error) {
	id, err := shortid.Generate(UserIDLength)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Email:     &email,
		IsActive:  true,
	}
	if password != "" {
		if err := u.SetPassword(password); err != nil {
			return nil, err
		}
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies the provided password against the stored hash.
// A user without a password hash (anonymous-only account) never matches.
func (u *User) CheckPassword(password string) bool {
	if u.Password == nil || *u.Password == "" {
		return false
	}
	return CheckPasswordHash(password, *u.Password)
}

// SetPassword hashes and sets a new password for the user.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = &hashedPassword
	return nil
}

// SetHashedPassword stores an already-hashed password (e.g. taken from the
// pending registration record) without re-hashing it.
func (u *User) SetHashedPassword(hash string) {
	u.Password = &hash
}

// FullName returns the display name used in notifications and admin views.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// RoleNames returns the user's roles as a plain string slice for token claims.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Role)
	}
	return names
}
