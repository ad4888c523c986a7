// Package users holds the account, session and quota logic shared by the
// HTTP server and the CLI.
package users

import (
	"context"
	"errors"
	"math"

	"ecomlens/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email address")
)

// Repository is the authoritative user store.
//
// List returns records in insertion order. FindByEmail matches
// case-insensitively. Upsert replaces the record with the same ID and is a
// no-op when none exists. IncrementUsage, ResetUsageIfStale and AdjustLimit
// must be atomic with respect to concurrent callers; AdjustLimit applies
// AddLimit to the stored value.
type Repository interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Upsert(ctx context.Context, user *models.User) error
	SeedIfEmpty(ctx context.Context, admin *models.User) (bool, error)
	IncrementUsage(ctx context.Context, id string) (*models.User, error)
	ResetUsageIfStale(ctx context.Context, id string, today string) (*models.User, error)
	SetLimit(ctx context.Context, id string, limit int) (*models.User, error)
	AdjustLimit(ctx context.Context, id string, delta int) (*models.User, error)
}

// SessionStore persists session pointers. Get returns (nil, nil) when the
// key is unknown or expired.
type SessionStore interface {
	Get(ctx context.Context, key string) (*models.Session, error)
	Set(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, key string) error
}

// MaxUsageLimit is the largest daily limit a store has to hold.
const MaxUsageLimit = math.MaxInt32

// ClampLimit bounds limit to [0, MaxUsageLimit].
func ClampLimit(limit int) int {
	switch {
	case limit < 0:
		return 0
	case limit > MaxUsageLimit:
		return MaxUsageLimit
	}
	return limit
}

// AddLimit returns limit+delta clamped like ClampLimit, without overflowing
// on extreme deltas.
func AddLimit(limit, delta int) int {
	limit = ClampLimit(limit)
	if delta > MaxUsageLimit-limit {
		return MaxUsageLimit
	}
	if delta < -limit {
		return 0
	}
	return limit + delta
}
