package ports

import (
	"context"

	"github.com/billable/timesheet-api/internal/core/domain"
)

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	// Actor is the administrator creating the account, nil for self-service
	// registration. Only administrators may create admin accounts.
	Actor *domain.Actor
}

// UpdateDetailsInput lists the profile fields a user may change. Nil fields
// are left untouched.
type UpdateDetailsInput struct {
	Name  *string
	Email *string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	UpdateDetails(ctx context.Context, userID string, in UpdateDetailsInput) (*domain.User, error)
}
