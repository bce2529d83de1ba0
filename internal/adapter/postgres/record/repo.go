// Package record implements record persistence backed by PostgreSQL.
// All records live in one table keyed by (entity, id); domain fields are
// stored as JSONB. Collections are written as whole snapshots: replace-all
// inside a transaction, never row-level patches.
package record

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/osanchezal/sgc-backend/internal/adapter/postgres"
	"github.com/osanchezal/sgc-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new record repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// List returns the full collection for an entity in insertion (ID) order.
// Returns an empty collection (not nil) when the entity has no records.
func (r *Repo) List(ctx context.Context, entity string) (domain.Collection, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.
		Select("id", "fields", "created_at", "updated_at").
		From("records").
		Where(sq.Eq{"entity": entity}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapListError(err, entity)
	}
	defer rows.Close()

	col := domain.Collection{}
	for rows.Next() {
		var (
			rec     domain.Record
			payload []byte
			updated *time.Time
		)
		if err := rows.Scan(&rec.ID, &payload, &rec.CreatedAt, &updated); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &rec.Fields); err != nil {
				return nil, fmt.Errorf("list %s: %w: %w", entity, domain.ErrCorrupt, err)
			}
		}
		rec.UpdatedAt = updated
		col = append(col, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapListError(err, entity)
	}

	return col, nil
}

// ReplaceAll swaps the entity's snapshot: delete everything, insert the new
// collection. Callers run it inside a TxManager transaction so readers never
// observe the intermediate empty state.
func (r *Repo) ReplaceAll(ctx context.Context, entity string, c domain.Collection) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	delSQL, delArgs, err := psql.
		Delete("records").
		Where(sq.Eq{"entity": entity}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}
	if _, err := q.Exec(ctx, delSQL, delArgs...); err != nil {
		return mapListError(err, entity)
	}

	if len(c) == 0 {
		return nil
	}

	ins := psql.
		Insert("records").
		Columns("entity", "id", "fields", "created_at", "updated_at")
	for _, rec := range c {
		payload, err := json.Marshal(rec.Fields)
		if err != nil {
			return fmt.Errorf("encode record %d: %w", rec.ID, err)
		}
		ins = ins.Values(entity, rec.ID, payload, rec.CreatedAt, rec.UpdatedAt)
	}

	insSQL, insArgs, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}
	if _, err := q.Exec(ctx, insSQL, insArgs...); err != nil {
		return mapListError(err, entity)
	}

	return nil
}

// Count returns the number of records for an entity.
func (r *Repo) Count(ctx context.Context, entity string) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.
		Select("count(*)").
		From("records").
		Where(sq.Eq{"entity": entity}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int
	if err := q.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, mapListError(err, entity)
	}
	return count, nil
}

func mapListError(err error, entity string) error {
	return fmt.Errorf("records %s: %w", entity, err)
}
