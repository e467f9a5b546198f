package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/billable/timesheet-api/internal/core/domain"
	"github.com/billable/timesheet-api/internal/core/ports"
)

const minPasswordLength = 6

// AuthService implements registration and login.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, now: time.Now}
}

// Register creates an account and returns a token for it. Role defaults to
// employee; an admin account needs an administrator as in.Actor.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := in.Role
	if role == "" {
		role = domain.RoleEmployee
	}

	if name == "" {
		return "", nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if err := validateEmail(email); err != nil {
		return "", nil, err
	}
	if len(in.Password) < minPasswordLength {
		return "", nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	if !domain.ValidRole(role) {
		return "", nil, fmt.Errorf("%w: invalid role %q", domain.ErrValidation, role)
	}
	if role == domain.RoleAdmin && (in.Actor == nil || !in.Actor.IsAdmin()) {
		return "", nil, fmt.Errorf("%w: only administrators can create admin accounts", domain.ErrForbidden)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	created, err := s.repo.InsertUser(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(created)
	if err != nil {
		return "", nil, err
	}
	return token, created, nil
}

// Login checks the credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindUserByID(ctx, userID)
}

// UpdateDetails changes the caller's name and/or email. Emails stay unique
// across accounts.
func (s *AuthService) UpdateDetails(ctx context.Context, userID string, in ports.UpdateDetailsInput) (*domain.User, error) {
	if in.Name == nil && in.Email == nil {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}
	var name, email string
	if in.Name != nil {
		if name = strings.TrimSpace(*in.Name); name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
		}
	}
	if in.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*in.Email))
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		user.Name = name
	}
	if in.Email != nil {
		user.Email = email
	}
	return s.repo.UpdateUser(ctx, user)
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	return nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"name": user.Name,
		"exp":  s.now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
