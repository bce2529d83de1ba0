// Package user implements account operations: login, token validation,
// and administrative provisioning.
package user

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/osanchezal/sgc-backend/internal/domain"
)

// userRepo defines the user repository interface needed by the service.
// Both the postgres repo and the local file store satisfy it.
type userRepo interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	CreateIfAbsent(ctx context.Context, u *domain.User) (bool, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// jwtManager defines the token management interface needed by the service.
type jwtManager interface {
	GenerateAccessToken(userID uuid.UUID, role string) (string, error)
	ValidateAccessToken(token string) (uuid.UUID, string, error)
}

// Service implements user account operations.
type Service struct {
	log   *slog.Logger
	users userRepo
	jwt   jwtManager
}

// NewService creates a new user service instance.
func NewService(logger *slog.Logger, users userRepo, jwt jwtManager) *Service {
	return &Service{
		log:   logger.With("service", "user"),
		users: users,
		jwt:   jwt,
	}
}

// AuthResult is returned by Login.
type AuthResult struct {
	AccessToken string
	User        *domain.User
}
