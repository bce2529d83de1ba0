// Package user implements the user repository using PostgreSQL.
package user

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/osanchezal/sgc-backend/internal/adapter/postgres"
	"github.com/osanchezal/sgc-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const userColumns = "id, email, name, role, password_hash, created_at, updated_at"

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByEmail returns the user with the given email.
// Returns domain.ErrNotFound when no such user exists.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.
		Select(userColumns).
		From("users").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	return scanUser(q.QueryRow(ctx, sql, args...), email)
}

// Create inserts a new user and returns the persisted row.
// Returns domain.ErrAlreadyExists when the email is taken.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.
		Insert("users").
		Columns("email", "name", "role", "password_hash").
		Values(u.Email, u.Name, u.Role, u.PasswordHash).
		Suffix("RETURNING " + userColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	return scanUser(q.QueryRow(ctx, sql, args...), u.Email)
}

// CreateIfAbsent inserts the user unless the email already exists.
// Idempotent bootstrap primitive: the existing row is never modified.
// Reports whether a row was created.
func (r *Repo) CreateIfAbsent(ctx context.Context, u *domain.User) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.
		Insert("users").
		Columns("email", "name", "role", "password_hash").
		Values(u.Email, u.Name, u.Role, u.PasswordHash).
		Suffix("ON CONFLICT (email) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return false, mapError(err, u.Email)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdatePassword replaces a user's password hash.
// Returns domain.ErrNotFound when the email is unknown.
func (r *Repo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.
		Update("users").
		Set("password_hash", passwordHash).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err, email)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
	}
	return nil
}

func scanUser(row pgx.Row, ref string) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapError(err, ref)
	}
	return &u, nil
}

func mapError(err error, ref string) error {
	return postgres.MapError(err, "user", ref)
}
