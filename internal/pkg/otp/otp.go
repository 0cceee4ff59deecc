package otp

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	PurposeRegistration  = "registration"
	PurposeResetPassword = "reset_password"
)

// TTL bounds the lifetime of a one-time code. The cache expiry is advisory
// housekeeping; the authoritative check happens on read.
const TTL = 10 * time.Minute

// Record holds a pending one-time code. Registration records also carry the
// profile fields to materialize into a User once the code is verified.
type Record struct {
	Code           string    `json:"code"`
	Purpose        string    `json:"purpose"`
	FirstName      string    `json:"first_name,omitempty"`
	LastName       string    `json:"last_name,omitempty"`
	HashedPassword string    `json:"hashed_password,omitempty"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Generate returns a 6-digit numeric code in [100000, 999999] drawn from a
// cryptographically strong source.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Store keeps pending codes keyed by (purpose, lowercased email). Entries are
// time-bounded and non-durable; a code cannot outlive a cache flush, which is
// accepted.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(purpose, email string) string {
	return "otp:" + purpose + ":" + strings.ToLower(email)
}

// Put stores a code, replacing any pending one for the same purpose and email.
func (s *Store) Put(ctx context.Context, purpose, email string, rec Record) error {
	rec.Purpose = purpose
	rec.ExpiresAt = time.Now().Add(TTL)

	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(purpose, email), payload, TTL+time.Second).Err()
}

// Get returns the pending record, or nil when absent. A stale record is
// treated as absent and removed.
func (s *Store) Get(ctx context.Context, purpose, email string) (*Record, error) {
	raw, err := s.client.Get(ctx, key(purpose, email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	if time.Now().After(rec.ExpiresAt) {
		_ = s.Delete(ctx, purpose, email)
		return nil, nil
	}
	return &rec, nil
}

func (s *Store) Delete(ctx context.Context, purpose, email string) error {
	return s.client.Del(ctx, key(purpose, email)).Err()
}

// Verify checks a code against the pending record. A matched code is
// single-use: the record is removed and returned. Expired or mismatched codes
// verify false.
func (s *Store) Verify(ctx context.Context, purpose, email, code string) (*Record, bool) {
	rec, err := s.Get(ctx, purpose, email)
	if err != nil || rec == nil {
		return nil, false
	}
	if rec.Code != code {
		return nil, false
	}
	_ = s.Delete(ctx, purpose, email)
	return rec, true
}
