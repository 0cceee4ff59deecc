package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// AccessTTL is the validity of a session token.
	AccessTTL = 7 * 24 * time.Hour
	// RefreshTTL is the validity of a refresh token.
	RefreshTTL = 30 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Sign issues an HS256 token carrying the identity claims used across the
// role-scoped surfaces.
func Sign(subject, email string, roles []string, ttl time.Duration, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("secret is required for token generation")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"roles": roles,
		"iat":   jwt.NewNumericDate(now),
		"exp":   jwt.NewNumericDate(now.Add(ttl)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// Parse verifies signature and expiry and returns the decoded claims.
// Malformed, tampered and expired tokens all come back as ErrInvalidToken.
func Parse(tokenString, secret string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Subject returns the token subject (user ID) or "".
func Subject(claims jwt.MapClaims) string {
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}

// Email returns the email claim or "".
func Email(claims jwt.MapClaims) string {
	if email, ok := claims["email"].(string); ok {
		return email
	}
	return ""
}

// Roles returns the roles claim as a string slice; absent or malformed claims
// yield an empty slice.
func Roles(claims jwt.MapClaims) []string {
	raw, ok := claims["roles"].([]interface{})
	if !ok {
		return nil
	}
	roles := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			roles = append(roles, s)
		}
	}
	return roles
}

// ResolveRoleClaim returns the token's single-role claim, lower-cased. The
// `role` field wins over the legacy `type` field; tokens with neither
// resolve to "".
func ResolveRoleClaim(claims jwt.MapClaims) string {
	if role, ok := claims["role"].(string); ok && role != "" {
		return strings.ToLower(role)
	}
	if typ, ok := claims["type"].(string); ok && typ != "" {
		return strings.ToLower(typ)
	}
	return ""
}
