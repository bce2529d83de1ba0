// Package list implements the generic list/CRUD coordination pattern shared
// by every registry screen: an in-memory collection with filter state and
// pagination, mediating between the record store and its consumers, raising
// a notification after every mutation.
package list

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/osanchezal/sgc-backend/internal/domain"
	"github.com/osanchezal/sgc-backend/internal/notify"
	"github.com/osanchezal/sgc-backend/internal/store"
)

// notifier is the slice of notify.Notifier the controller needs.
type notifier interface {
	Notify(t notify.Toast) int64
}

// Controller owns one entity's collection. All operations are serialized
// under a single mutex, so two back-to-back writes can never interleave
// and drop an update. Fresh IDs come from a monotonic counter seeded from
// the loaded collection, never from the wall clock.
type Controller struct {
	def      domain.EntityDef
	store    store.Store
	notifier notifier
	log      *slog.Logger
	now      func() time.Time

	mu         sync.Mutex
	collection domain.Collection
	nextID     int64
	loaded     bool

	search   string
	category string
	page     int
	pageSize int
}

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize overrides the default page size.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithClock overrides the timestamp source (tests).
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController creates a controller for one entity. Call Load before use;
// operations on an unloaded controller load lazily.
func NewController(def domain.EntityDef, st store.Store, n notifier, log *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		def:      def,
		store:    st,
		notifier: n,
		log:      log.With("entity", def.Name),
		now:      time.Now,
		page:     1,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads the collection from the store and seeds the ID counter.
// A corrupt or unreachable store is swallowed: the controller starts from
// an empty collection and raises a warning notification instead of failing.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked(ctx)
}

func (c *Controller) loadLocked(ctx context.Context) {
	if c.loaded {
		return
	}

	col, err := c.store.Load(ctx, c.def.Name)
	if err != nil {
		c.log.WarnContext(ctx, "load failed, starting empty", slog.String("error", err.Error()))
		c.notifier.Notify(notify.Toast{
			Title:       "No se pudieron cargar los datos",
			Description: c.def.Title,
			Variant:     notify.VariantWarning,
		})
		col = domain.Collection{}
	}

	c.collection = col
	c.nextID = col.MaxID()
	c.loaded = true
}

// Create assigns a fresh identifier and creation timestamp, appends the
// record, and persists the new snapshot. On persistence failure the
// in-memory collection is left unchanged and an error notification is
// raised; the error is also returned for transport-level mapping.
func (c *Controller) Create(ctx context.Context, fields map[string]any) (domain.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked(ctx)

	c.nextID++
	rec := domain.Record{
		ID:        c.nextID,
		Fields:    fields,
		CreatedAt: c.now().UTC(),
	}

	next := append(c.collection.Clone(), rec)
	if err := c.persistLocked(ctx, next); err != nil {
		c.nextID--
		return domain.Record{}, err
	}

	c.notifyLocked("Registro creado", notify.VariantSuccess)
	return rec.Clone(), nil
}

// Update replaces the fields of the record with the given ID, preserving
// its identifier and creation timestamp. Returns domain.ErrNotFound when
// no such record exists.
func (c *Controller) Update(ctx context.Context, id int64, fields map[string]any) (domain.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked(ctx)

	idx := c.collection.IndexOf(id)
	if idx < 0 {
		return domain.Record{}, fmt.Errorf("%s %d: %w", c.def.Name, id, domain.ErrNotFound)
	}

	next := c.collection.Clone()
	now := c.now().UTC()
	next[idx].Fields = fields
	next[idx].UpdatedAt = &now

	if err := c.persistLocked(ctx, next); err != nil {
		return domain.Record{}, err
	}

	c.notifyLocked("Registro actualizado", notify.VariantSuccess)
	return next[idx].Clone(), nil
}

// Remove deletes the record with the given ID. A missing ID is a no-op,
// not an error: the snapshot is persisted as-is and the "deleted"
// notification is still raised. Confirmation is the caller's concern.
func (c *Controller) Remove(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked(ctx)

	next := c.collection.Clone()
	if idx := next.IndexOf(id); idx >= 0 {
		next = append(next[:idx], next[idx+1:]...)
	}

	if err := c.persistLocked(ctx, next); err != nil {
		return err
	}

	c.notifyLocked("Registro eliminado", notify.VariantInfo)
	return nil
}

// Get returns the record with the given ID, or domain.ErrNotFound.
func (c *Controller) Get(ctx context.Context, id int64) (domain.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked(ctx)

	idx := c.collection.IndexOf(id)
	if idx < 0 {
		return domain.Record{}, fmt.Errorf("%s %d: %w", c.def.Name, id, domain.ErrNotFound)
	}
	return c.collection[idx].Clone(), nil
}

// SetFilter replaces the free-text term and category criteria and resets
// the current page to 1.
func (c *Controller) SetFilter(term, category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search, c.category = term, category
	c.page = 1
}

// GoToPage navigates to a 1-based page, clamped into the valid range for
// the current filtered view.
func (c *Controller) GoToPage(ctx context.Context, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked(ctx)

	filtered := Filter(c.def, c.collection, c.search, c.category)
	c.page = ClampPage(n, TotalPages(len(filtered), c.pageSize))
}

// View returns the current page of the filtered collection along with its
// pagination state.
func (c *Controller) View(ctx context.Context) (domain.Collection, PageInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked(ctx)

	filtered := Filter(c.def, c.collection, c.search, c.category)
	page, info := Paginate(filtered, c.pageSize, c.page)
	return page.Clone(), info
}

// Query returns one page of records matching an explicit filter, without
// touching the controller's own filter state. This is the stateless entry
// point used by the HTTP handlers.
func (c *Controller) Query(ctx context.Context, f domain.RecordFilter) (domain.Collection, PageInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked(ctx)

	size := f.PageSize
	if size <= 0 {
		size = c.pageSize
	}
	filtered := Filter(c.def, c.collection, f.Search, f.Category)
	page, info := Paginate(filtered, size, f.Page)
	return page.Clone(), info
}

// Records returns a snapshot of the full collection in insertion order.
func (c *Controller) Records(ctx context.Context) domain.Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked(ctx)
	return c.collection.Clone()
}

// persistLocked saves the candidate snapshot and commits it in memory only
// on success. On failure the previous collection stays in place.
func (c *Controller) persistLocked(ctx context.Context, next domain.Collection) error {
	if err := c.store.Save(ctx, c.def.Name, next); err != nil {
		c.log.ErrorContext(ctx, "persist failed", slog.String("error", err.Error()))
		c.notifier.Notify(notify.Toast{
			Title:       "No se pudieron guardar los cambios",
			Description: c.def.Title,
			Variant:     notify.VariantError,
		})
		return fmt.Errorf("persist %s: %w", c.def.Name, err)
	}
	c.collection = next
	return nil
}

func (c *Controller) notifyLocked(title string, v notify.Variant) {
	c.notifier.Notify(notify.Toast{
		Title:       title,
		Description: c.def.Title,
		Variant:     v,
	})
}
