// Package store defines the record store contract: whole-collection
// snapshots, one per entity. There is no partial update — callers compute
// the new collection in memory and save the complete result.
package store

import (
	"context"

	"github.com/osanchezal/sgc-backend/internal/domain"
)

// Store persists collections as atomic snapshots.
//
// Load returns the persisted collection for the entity, or an empty
// collection when none exists. A payload that exists but cannot be decoded
// yields an empty collection together with an error wrapping
// domain.ErrCorrupt, so callers can surface a notification and continue.
//
// Save replaces the entire snapshot. From the caller's perspective the
// write is atomic: a reader never observes a partially written collection.
type Store interface {
	Load(ctx context.Context, entity string) (domain.Collection, error)
	Save(ctx context.Context, entity string, c domain.Collection) error
}
