package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-user-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user matches the lookup key.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when an insert or update would
	// violate the unique email constraint.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserPatch describes a partial update. Nil fields are left untouched.
// Password must already be hashed by the caller.
type UserPatch struct {
	Username *string
	Email    *string
	Password *string
	Role     *string
}

func (p UserPatch) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.Password == nil && p.Role == nil
}

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateFields(ctx context.Context, id int64, patch UserPatch) (*entity.User, error)
	Delete(ctx context.Context, id int64) error
}
