package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/civiceye/CivicEye/app/models"
	"github.com/civiceye/CivicEye/app/repository"
	"github.com/civiceye/CivicEye/internal/pkg/token"
)

// ErrLoginFailed is the only error login surfaces to callers. Lookup misses,
// bad passwords and infrastructure failures are collapsed into it so the
// response never reveals whether an account exists; the cause is logged.
var ErrLoginFailed = errors.New("login failed")

var (
	errNotFound           = errors.New("account does not exist or is not authorized")
	errInvalidCredentials = errors.New("invalid credentials")
)

// RoleProfile carries the per-role cookie and response-field names. The three
// login flows are otherwise identical, so they share one implementation
// parameterized by this table.
type RoleProfile struct {
	Role       string
	TokenField string
	CookieName string
}

var roleProfiles = map[string]RoleProfile{
	models.RoleAdmin:    {Role: models.RoleAdmin, TokenField: "admin_access", CookieName: "admin_access"},
	models.RoleStaff:    {Role: models.RoleStaff, TokenField: "staff_access", CookieName: "staff_access"},
	models.RoleResident: {Role: models.RoleResident, TokenField: "access_token", CookieName: "access_token"},
}

// ProfileFor resolves the cookie/field names for a role.
func ProfileFor(role string) (RoleProfile, bool) {
	p, ok := roleProfiles[role]
	return p, ok
}

// TokenPair is the session artifact issued on login: a 7-day session token and
// a 30-day refresh token, both carrying {sub, email, roles}.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service authenticates credentials per role and issues signed tokens.
// Logout is stateless; there is no server-side session table to revoke.
type Service struct {
	users  repository.UserRepository
	secret string
}

func NewService(users repository.UserRepository, secret string) *Service {
	return &Service{users: users, secret: secret}
}

// Login authenticates an email/password pair against the given role and
// issues a token pair.
func (s *Service) Login(role, email, pass string) (*TokenPair, error) {
	pair, err := s.login(role, email, pass)
	if err != nil {
		log.Errorf("[Auth] login as %s failed: %v", role, err)
		return nil, ErrLoginFailed
	}
	return pair, nil
}

func (s *Service) login(role, email, pass string) (*TokenPair, error) {
	user, err := s.users.GetActiveByEmailAndRole(email, role)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, err
	}

	// bcrypt comparison; a missing hash never matches.
	if !user.CheckPassword(pass) {
		return nil, errInvalidCredentials
	}

	claimEmail := ""
	if user.Email != nil {
		claimEmail = *user.Email
	}
	roles := user.RoleNames()

	accessToken, err := token.Sign(user.ID, claimEmail, roles, token.AccessTTL, s.secret)
	if err != nil {
		return nil, err
	}
	refreshToken, err := token.Sign(user.ID, claimEmail, roles, token.RefreshTTL, s.secret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
