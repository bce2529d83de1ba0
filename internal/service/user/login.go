package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/osanchezal/sgc-backend/internal/domain"
)

// Login authenticates a user with email + password and issues an access
// token. Returns ErrUnauthorized if the email is not found or the password
// is wrong; the two cases are deliberately indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	input.Email = strings.TrimSpace(input.Email)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("user.Login get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, err := s.jwt.GenerateAccessToken(u.ID, u.Role.String())
	if err != nil {
		return nil, fmt.Errorf("user.Login issue token: %w", err)
	}

	s.log.InfoContext(ctx, "user logged in",
		slog.String("user_id", u.ID.String()))

	return &AuthResult{AccessToken: token, User: u}, nil
}

// ValidateToken checks an access token and returns the user ID and role it
// carries. Used by the auth middleware; any failure maps to ErrUnauthorized.
func (s *Service) ValidateToken(_ context.Context, token string) (uuid.UUID, string, error) {
	id, role, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return uuid.Nil, "", domain.ErrUnauthorized
	}
	return id, role, nil
}
