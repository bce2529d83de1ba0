// Package records exposes the registry of quality-management collections
// through a uniform CRUD surface. One list controller is built per
// registered entity; the service routes operations by entity name.
package records

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osanchezal/sgc-backend/internal/domain"
	"github.com/osanchezal/sgc-backend/internal/list"
	"github.com/osanchezal/sgc-backend/internal/notify"
	"github.com/osanchezal/sgc-backend/internal/store"
)

// notifier is the slice of notify.Notifier the service passes through to
// its controllers.
type notifier interface {
	Notify(t notify.Toast) int64
}

// Service routes record operations to the controller for each entity.
type Service struct {
	log         *slog.Logger
	registry    *domain.Registry
	controllers map[string]*list.Controller
}

// NewService builds one controller per entity in the registry, all backed
// by the same store and notification channel.
func NewService(logger *slog.Logger, registry *domain.Registry, st store.Store, n notifier, opts ...list.Option) *Service {
	log := logger.With("service", "records")

	controllers := make(map[string]*list.Controller, len(registry.Names()))
	for _, name := range registry.Names() {
		def, _ := registry.Lookup(name)
		controllers[name] = list.NewController(def, st, n, log, opts...)
	}

	return &Service{
		log:         log,
		registry:    registry,
		controllers: controllers,
	}
}

// Entities returns the registered entity names in registration order.
func (s *Service) Entities() []string {
	return s.registry.Names()
}

// Lookup returns the definition for an entity name, or domain.ErrNotFound.
func (s *Service) Lookup(entity string) (domain.EntityDef, error) {
	return s.registry.Lookup(entity)
}

// controller resolves the controller for an entity name.
func (s *Service) controller(entity string) (*list.Controller, error) {
	c, ok := s.controllers[entity]
	if !ok {
		return nil, fmt.Errorf("entity %q: %w", entity, domain.ErrNotFound)
	}
	return c, nil
}

// Query returns one page of records matching the filter.
func (s *Service) Query(ctx context.Context, entity string, f domain.RecordFilter) (domain.Collection, list.PageInfo, error) {
	c, err := s.controller(entity)
	if err != nil {
		return nil, list.PageInfo{}, err
	}
	page, info := c.Query(ctx, f)
	return page, info, nil
}

// Get returns a single record by ID.
func (s *Service) Get(ctx context.Context, entity string, id int64) (domain.Record, error) {
	c, err := s.controller(entity)
	if err != nil {
		return domain.Record{}, err
	}
	return c.Get(ctx, id)
}

// Create validates the payload and appends a new record.
func (s *Service) Create(ctx context.Context, entity string, fields map[string]any) (domain.Record, error) {
	c, err := s.controller(entity)
	if err != nil {
		return domain.Record{}, err
	}
	if err := validateFields(fields); err != nil {
		return domain.Record{}, err
	}
	return c.Create(ctx, fields)
}

// Update validates the payload and replaces the fields of an existing record.
func (s *Service) Update(ctx context.Context, entity string, id int64, fields map[string]any) (domain.Record, error) {
	c, err := s.controller(entity)
	if err != nil {
		return domain.Record{}, err
	}
	if err := validateFields(fields); err != nil {
		return domain.Record{}, err
	}
	return c.Update(ctx, id, fields)
}

// Remove deletes a record. Removing an ID that does not exist is a no-op.
func (s *Service) Remove(ctx context.Context, entity string, id int64) error {
	c, err := s.controller(entity)
	if err != nil {
		return err
	}
	return c.Remove(ctx, id)
}

// Stats returns the record count per entity, in registration order.
func (s *Service) Stats(ctx context.Context) map[string]int {
	out := make(map[string]int, len(s.controllers))
	for name, c := range s.controllers {
		out[name] = len(c.Records(ctx))
	}
	return out
}
