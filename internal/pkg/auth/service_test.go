package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/civiceye/CivicEye/app/models"
	"github.com/civiceye/CivicEye/internal/pkg/token"
)

const testSecret = "auth-test-secret"

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetActiveByEmailAndRole(email, role string) (*models.User, error) {
	args := m.Called(email, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) AssignRole(userID, role string) error {
	args := m.Called(userID, role)
	return args.Error(0)
}

func (m *MockUserRepository) List(offset, limit int) ([]models.User, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Search(query string) ([]models.User, error) {
	args := m.Called(query)
	return args.Get(0).([]models.User), args.Error(1)
}

func staffUser(t *testing.T, password string) *models.User {
	t.Helper()

	hash, err := models.HashPassword(password)
	require.NoError(t, err)
	email := "staff@city.gov"

	return &models.User{
		ID:       "aB3dE5fG",
		Email:    &email,
		Password: &hash,
		IsActive: true,
		Roles: []models.UserRole{
			{UserID: "aB3dE5fG", Role: models.RoleStaff},
		},
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetActiveByEmailAndRole", "staff@city.gov", models.RoleStaff).
		Return(staffUser(t, "Str0ng!Pass"), nil)

	svc := NewService(repo, testSecret)
	pair, err := svc.Login(models.RoleStaff, "staff@city.gov", "Str0ng!Pass")
	require.NoError(t, err)
	require.NotNil(t, pair)

	claims, err := token.Parse(pair.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "aB3dE5fG", token.Subject(claims))
	assert.Equal(t, "staff@city.gov", token.Email(claims))
	assert.Equal(t, []string{models.RoleStaff}, token.Roles(claims))

	_, err = token.Parse(pair.RefreshToken, testSecret)
	assert.NoError(t, err)
}

func TestLoginUnknownAccountIsGeneric(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetActiveByEmailAndRole", "nobody@city.gov", models.RoleAdmin).
		Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(repo, testSecret)
	_, err := svc.Login(models.RoleAdmin, "nobody@city.gov", "whatever")
	assert.ErrorIs(t, err, ErrLoginFailed)
}

func TestLoginWrongPasswordIsGeneric(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetActiveByEmailAndRole", "staff@city.gov", models.RoleStaff).
		Return(staffUser(t, "Str0ng!Pass"), nil)

	svc := NewService(repo, testSecret)
	_, err := svc.Login(models.RoleStaff, "staff@city.gov", "wrong-password")
	// Indistinguishable from the unknown-account case.
	assert.ErrorIs(t, err, ErrLoginFailed)
}

func TestLoginPasswordlessAccountIsGeneric(t *testing.T) {
	user := staffUser(t, "Str0ng!Pass")
	user.Password = nil

	repo := new(MockUserRepository)
	repo.On("GetActiveByEmailAndRole", "staff@city.gov", models.RoleStaff).Return(user, nil)

	svc := NewService(repo, testSecret)
	_, err := svc.Login(models.RoleStaff, "staff@city.gov", "Str0ng!Pass")
	assert.ErrorIs(t, err, ErrLoginFailed)
}

func TestProfileFor(t *testing.T) {
	admin, ok := ProfileFor(models.RoleAdmin)
	require.True(t, ok)
	assert.Equal(t, "admin_access", admin.TokenField)

	resident, ok := ProfileFor(models.RoleResident)
	require.True(t, ok)
	assert.Equal(t, "access_token", resident.CookieName)

	_, ok = ProfileFor("Intruder")
	assert.False(t, ok)
}
