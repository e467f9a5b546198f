package domain

import "errors"

// Domain errors. Callers attach detail with fmt.Errorf("%w: ...") and match
// with errors.Is.
var (
	ErrValidation               = errors.New("validation failed")
	ErrDailyCapExceeded         = errors.New("daily hours cap exceeded")
	ErrProjectNotFound          = errors.New("project not found")
	ErrProjectArchived          = errors.New("project is archived")
	ErrInvalidProjectTransition = errors.New("invalid project status transition")
	ErrTimeLogNotFound          = errors.New("time log not found")
	ErrForbidden                = errors.New("access forbidden")
	ErrUserNotFound             = errors.New("user not found")
	ErrUserExists               = errors.New("user already exists")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrIdempotencyKeyReused     = errors.New("idempotency key reused with a different request")
)
