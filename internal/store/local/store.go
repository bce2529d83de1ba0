// Package local implements the record store on the local filesystem:
// one JSON file per entity, written atomically via a temp file + rename.
// It is the storage driver for single-machine deployments and tests.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/osanchezal/sgc-backend/internal/domain"
)

// Store persists each collection as <dir>/<entity>.json.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating it if necessary.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("local store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local store: create %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Load reads the entity's snapshot. A missing file is an empty collection.
// A file that cannot be decoded returns an empty collection and an error
// wrapping domain.ErrCorrupt — the caller decides how to surface it.
func (s *Store) Load(_ context.Context, entity string) (domain.Collection, error) {
	data, err := os.ReadFile(s.path(entity))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Collection{}, nil
		}
		return domain.Collection{}, fmt.Errorf("load %s: %w: %w", entity, domain.ErrUnavailable, err)
	}

	var c domain.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return domain.Collection{}, fmt.Errorf("load %s: %w: %w", entity, domain.ErrCorrupt, err)
	}
	return c, nil
}

// Save writes the full snapshot atomically: encode to a temp file in the
// same directory, fsync, then rename over the target.
func (s *Store) Save(_ context.Context, entity string, c domain.Collection) error {
	if c == nil {
		c = domain.Collection{}
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("save %s: encode: %w", entity, err)
	}

	tmp, err := os.CreateTemp(s.dir, entity+"-*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w: %w", entity, domain.ErrUnavailable, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: write: %w", entity, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: sync: %w", entity, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: close: %w", entity, err)
	}

	if err := os.Rename(tmpName, s.path(entity)); err != nil {
		return fmt.Errorf("save %s: rename: %w", entity, err)
	}
	return nil
}

// Ping reports whether the storage directory is still reachable. Satisfies
// the health check interface shared with the postgres pool.
func (s *Store) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("local store: %w: %w", domain.ErrUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("local store: %s is not a directory: %w", s.dir, domain.ErrUnavailable)
	}
	return nil
}

func (s *Store) path(entity string) string {
	return filepath.Join(s.dir, entity+".json")
}
