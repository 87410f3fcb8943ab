package repository

import (
	"context"
	"errors"

	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint (e.g. email) is violated.
	ErrDuplicate = errors.New("duplicate")
)

// UserRepository is the credential store.
//
// FindByEmail matches case-insensitively. The password hash is only loaded
// when includeHash is true. Save inserts users without an ID and updates the
// others; the hash and PasswordChangedAt are written in a single statement.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string, includeHash bool) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	Save(ctx context.Context, u *entity.User) error
}
