package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osanchezal/sgc-backend/internal/domain"
)

// UserStore persists operator accounts in <dir>/users.json. It implements
// the same contract as the PostgreSQL user repository so the user service
// works unchanged under the local storage driver.
type UserStore struct {
	mu   sync.Mutex
	path string
}

// NewUserStore creates a UserStore rooted at dir, creating it if necessary.
func NewUserStore(dir string) (*UserStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("user store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("user store: create %s: %w", dir, err)
	}
	return &UserStore{path: filepath.Join(dir, "users.json")}, nil
}

// GetByEmail returns the user with the given email.
// Returns domain.ErrNotFound when no such user exists.
func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			u := users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

// Create inserts a new user.
// Returns domain.ErrAlreadyExists when the email is taken.
func (s *UserStore) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, u.Email) {
			return nil, fmt.Errorf("user %s: %w", u.Email, domain.ErrAlreadyExists)
		}
	}

	created := *u
	created.ID = uuid.New()
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	if err := s.writeLocked(append(users, created)); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateIfAbsent inserts the user unless the email already exists.
// The existing row is never modified. Reports whether a row was created.
func (s *UserStore) CreateIfAbsent(ctx context.Context, u *domain.User) (bool, error) {
	s.mu.Lock()
	users, err := s.readLocked()
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, u.Email) {
			s.mu.Unlock()
			return false, nil
		}
	}
	s.mu.Unlock()

	if _, err := s.Create(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}

// UpdatePassword replaces a user's password hash.
// Returns domain.ErrNotFound when the email is unknown.
func (s *UserStore) UpdatePassword(_ context.Context, email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readLocked()
	if err != nil {
		return err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			users[i].PasswordHash = passwordHash
			users[i].UpdatedAt = time.Now().UTC()
			return s.writeLocked(users)
		}
	}
	return fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

type storedUser struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	Role         domain.Role `json:"role"`
	PasswordHash string      `json:"passwordHash"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (s *UserStore) readLocked() ([]domain.User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read users: %w: %w", domain.ErrUnavailable, err)
	}

	var stored []storedUser
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("read users: %w: %w", domain.ErrCorrupt, err)
	}

	users := make([]domain.User, len(stored))
	for i, su := range stored {
		users[i] = domain.User(su)
	}
	return users, nil
}

func (s *UserStore) writeLocked(users []domain.User) error {
	stored := make([]storedUser, len(users))
	for i, u := range users {
		stored[i] = storedUser(u)
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("write users: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "users-*.tmp")
	if err != nil {
		return fmt.Errorf("write users: %w: %w", domain.ErrUnavailable, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write users: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	return nil
}
