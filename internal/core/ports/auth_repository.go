package ports

import (
	"context"

	"github.com/billable/timesheet-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// FindUserByID returns domain.ErrUserNotFound when no user matches.
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	// InsertUser returns domain.ErrUserExists when the email is taken.
	InsertUser(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdateUser persists the profile fields (name, email) of user. It returns
	// domain.ErrUserNotFound for an unknown id and domain.ErrUserExists when
	// the email belongs to another account.
	UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error)
}
