package record

import (
	"context"

	"github.com/osanchezal/sgc-backend/internal/domain"
)

// txManager is the transaction slice the snapshot store needs.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store adapts the repository to the snapshot store contract: Load reads
// the full collection, Save replaces it inside one transaction so the
// write is atomic from the caller's perspective.
type Store struct {
	repo *Repo
	tx   txManager
}

// NewStore creates the snapshot store over a record repository.
func NewStore(repo *Repo, tx txManager) *Store {
	return &Store{repo: repo, tx: tx}
}

// Load returns the persisted collection for the entity.
func (s *Store) Load(ctx context.Context, entity string) (domain.Collection, error) {
	return s.repo.List(ctx, entity)
}

// Save replaces the entity's snapshot transactionally.
func (s *Store) Save(ctx context.Context, entity string, c domain.Collection) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.repo.ReplaceAll(txCtx, entity, c)
	})
}
