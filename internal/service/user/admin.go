package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/osanchezal/sgc-backend/internal/domain"
)

// CreateUser provisions a new account. Used by the userctl CLI; there is
// no self-registration endpoint.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Name = strings.TrimSpace(input.Name)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("user.CreateUser hash password: %w", err)
	}

	u, err := s.users.Create(ctx, &domain.User{
		Email:        input.Email,
		Name:         input.Name,
		Role:         input.Role,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, fmt.Errorf("user.CreateUser: %w", err)
	}

	s.log.InfoContext(ctx, "user created",
		slog.String("email", u.Email),
		slog.String("role", u.Role.String()),
	)

	return u, nil
}

// EnsureAdmin creates the bootstrap administrator account if it does not
// exist yet. Idempotent: an existing account is never modified, so a
// rotated ADMIN_PASSWORD does not silently overwrite a changed password.
// Returns true when the account was created by this call.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	input := CreateUserInput{Email: email, Name: "Administrador", Role: domain.RoleAdmin, Password: password}
	if err := input.Validate(); err != nil {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("user.EnsureAdmin hash password: %w", err)
	}

	created, err := s.users.CreateIfAbsent(ctx, &domain.User{
		Email:        strings.TrimSpace(email),
		Name:         "Administrador",
		Role:         domain.RoleAdmin,
		PasswordHash: string(hash),
	})
	if err != nil {
		return false, fmt.Errorf("user.EnsureAdmin: %w", err)
	}

	if created {
		s.log.InfoContext(ctx, "admin account created", slog.String("email", email))
	} else {
		s.log.InfoContext(ctx, "admin account already present", slog.String("email", email))
	}

	return created, nil
}

// ResetPassword replaces the password of an existing account.
func (s *Service) ResetPassword(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)

	input := ResetPasswordInput{Email: email, Password: password}
	if err := input.Validate(); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("user.ResetPassword hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, email, string(hash)); err != nil {
		return fmt.Errorf("user.ResetPassword: %w", err)
	}

	s.log.InfoContext(ctx, "password reset", slog.String("email", email))
	return nil
}
