package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/osanchezal/sgc-backend/internal/domain"
)

type mockUserRepo struct {
	getByEmailFn     func(ctx context.Context, email string) (*domain.User, error)
	createFn         func(ctx context.Context, u *domain.User) (*domain.User, error)
	createIfAbsentFn func(ctx context.Context, u *domain.User) (bool, error)
	updatePasswordFn func(ctx context.Context, email, passwordHash string) error
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFn(ctx, email)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	return m.createFn(ctx, u)
}

func (m *mockUserRepo) CreateIfAbsent(ctx context.Context, u *domain.User) (bool, error) {
	return m.createIfAbsentFn(ctx, u)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	return m.updatePasswordFn(ctx, email, passwordHash)
}

type mockJWT struct {
	generateFn func(userID uuid.UUID, role string) (string, error)
	validateFn func(token string) (uuid.UUID, string, error)
}

func (m *mockJWT) GenerateAccessToken(userID uuid.UUID, role string) (string, error) {
	return m.generateFn(userID, role)
}

func (m *mockJWT) ValidateAccessToken(token string) (uuid.UUID, string, error) {
	return m.validateFn(token)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &mockUserRepo{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			if email != "ana@sgc.local" {
				t.Errorf("unexpected email lookup: %s", email)
			}
			return &domain.User{
				ID:           userID,
				Email:        email,
				Role:         domain.RoleAdmin,
				PasswordHash: hashOf(t, "secreto-123"),
			}, nil
		},
	}
	jwt := &mockJWT{
		generateFn: func(id uuid.UUID, role string) (string, error) {
			if id != userID || role != "admin" {
				t.Errorf("unexpected token claims: %s %s", id, role)
			}
			return "token-abc", nil
		},
	}

	svc := NewService(discardLogger(), repo, jwt)
	res, err := svc.Login(context.Background(), LoginInput{Email: " ana@sgc.local ", Password: "secreto-123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken != "token-abc" {
		t.Errorf("token: got %q", res.AccessToken)
	}
	if res.User.ID != userID {
		t.Errorf("user: got %s, want %s", res.User.ID, userID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepo{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{Email: email, PasswordHash: hashOf(t, "correcta")}, nil
		},
	}
	svc := NewService(discardLogger(), repo, &mockJWT{})

	_, err := svc.Login(context.Background(), LoginInput{Email: "ana@sgc.local", Password: "incorrecta"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepo{
		getByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := NewService(discardLogger(), repo, &mockJWT{})

	_, err := svc.Login(context.Background(), LoginInput{Email: "nadie@sgc.local", Password: "cualquiera"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLogin_InvalidInput(t *testing.T) {
	t.Parallel()

	svc := NewService(discardLogger(), &mockUserRepo{}, &mockJWT{})

	_, err := svc.Login(context.Background(), LoginInput{Email: "", Password: ""})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	jwt := &mockJWT{
		validateFn: func(token string) (uuid.UUID, string, error) {
			if token == "good" {
				return userID, "user", nil
			}
			return uuid.Nil, "", errors.New("bad signature")
		},
	}
	svc := NewService(discardLogger(), &mockUserRepo{}, jwt)

	id, role, err := svc.ValidateToken(context.Background(), "good")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if id != userID || role != "user" {
		t.Errorf("got %s %s", id, role)
	}

	if _, _, err := svc.ValidateToken(context.Background(), "bad"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateUser_HashesPassword(t *testing.T) {
	t.Parallel()

	var stored *domain.User
	repo := &mockUserRepo{
		createFn: func(_ context.Context, u *domain.User) (*domain.User, error) {
			stored = u
			return u, nil
		},
	}
	svc := NewService(discardLogger(), repo, &mockJWT{})

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "nuevo@sgc.local",
		Name:     "Nuevo Usuario",
		Role:     domain.RoleUser,
		Password: "contrasena-larga",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if stored.PasswordHash == "contrasena-larga" {
		t.Fatal("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("contrasena-larga")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	t.Parallel()

	calls := 0
	repo := &mockUserRepo{
		createIfAbsentFn: func(_ context.Context, u *domain.User) (bool, error) {
			calls++
			if u.Role != domain.RoleAdmin {
				t.Errorf("role: got %s, want admin", u.Role)
			}
			return calls == 1, nil
		},
	}
	svc := NewService(discardLogger(), repo, &mockJWT{})

	created, err := svc.EnsureAdmin(context.Background(), "admin@sgc.local", "clave-inicial")
	if err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if !created {
		t.Error("first call should create the account")
	}

	created, err = svc.EnsureAdmin(context.Background(), "admin@sgc.local", "clave-inicial")
	if err != nil {
		t.Fatalf("EnsureAdmin second call: %v", err)
	}
	if created {
		t.Error("second call should be a no-op")
	}
}

func TestResetPassword_UnknownEmail(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepo{
		updatePasswordFn: func(_ context.Context, _, _ string) error {
			return domain.ErrNotFound
		},
	}
	svc := NewService(discardLogger(), repo, &mockJWT{})

	err := svc.ResetPassword(context.Background(), "nadie@sgc.local", "nueva-clave-larga")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
