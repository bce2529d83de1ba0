package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/osanchezal/sgc-backend/internal/domain"
	"github.com/osanchezal/sgc-backend/internal/list"
)

// recordsService defines the minimal interface needed by RecordsHandler.
type recordsService interface {
	Entities() []string
	Lookup(entity string) (domain.EntityDef, error)
	Query(ctx context.Context, entity string, f domain.RecordFilter) (domain.Collection, list.PageInfo, error)
	Get(ctx context.Context, entity string, id int64) (domain.Record, error)
	Create(ctx context.Context, entity string, fields map[string]any) (domain.Record, error)
	Update(ctx context.Context, entity string, id int64, fields map[string]any) (domain.Record, error)
	Remove(ctx context.Context, entity string, id int64) error
	Stats(ctx context.Context) map[string]int
}

// RecordsHandler serves the record CRUD endpoints for every registered
// entity. The entity name comes from the URL path; unknown names are 404.
type RecordsHandler struct {
	svc recordsService
	log *slog.Logger
}

// NewRecordsHandler creates a RecordsHandler.
func NewRecordsHandler(svc recordsService, logger *slog.Logger) *RecordsHandler {
	return &RecordsHandler{svc: svc, log: logger.With("handler", "records")}
}

type recordResponse struct {
	ID        int64          `json:"id"`
	Fields    map[string]any `json:"fields"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
}

type listResponse struct {
	Items      []recordResponse `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalItems int              `json:"total_items"`
	TotalPages int              `json:"total_pages"`
}

type entityResponse struct {
	Name          string   `json:"name"`
	Title         string   `json:"title"`
	SearchFields  []string `json:"search_fields"`
	CategoryField string   `json:"category_field,omitempty"`
}

// Entities handles GET /api/entities.
func (h *RecordsHandler) Entities(w http.ResponseWriter, r *http.Request) {
	names := h.svc.Entities()
	out := make([]entityResponse, 0, len(names))
	for _, name := range names {
		def, err := h.svc.Lookup(name)
		if err != nil {
			continue
		}
		out = append(out, entityResponse{
			Name:          def.Name,
			Title:         def.Title,
			SearchFields:  def.SearchFields,
			CategoryField: def.CategoryField,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Stats handles GET /api/stats.
func (h *RecordsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stats(r.Context()))
}

// List handles GET /api/{entity}?q=&category=&page=&page_size=.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	q := r.URL.Query()

	filter := domain.RecordFilter{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Page:     intQuery(q.Get("page"), 1),
		PageSize: intQuery(q.Get("page_size"), 0),
	}

	records, info, err := h.svc.Query(r.Context(), entity, filter)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	items := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, toRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, listResponse{
		Items:      items,
		Page:       info.Page,
		PageSize:   info.PageSize,
		TotalItems: info.TotalItems,
		TotalPages: info.TotalPages,
	})
}

// Get handles GET /api/{entity}/{id}.
func (h *RecordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Get(r.Context(), entity, id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

// Create handles POST /api/{entity}.
func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")

	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Create(r.Context(), entity, fields)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecordResponse(rec))
}

// Update handles PUT /api/{entity}/{id}.
func (h *RecordsHandler) Update(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Update(r.Context(), entity, id, fields)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

// Delete handles DELETE /api/{entity}/{id}. Deleting an ID that does not
// exist still succeeds.
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Remove(r.Context(), entity, id); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toRecordResponse(rec domain.Record) recordResponse {
	return recordResponse{
		ID:        rec.ID,
		Fields:    rec.Fields,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return 0, false
	}
	return id, true
}

func decodeFields(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var body struct {
		Fields map[string]any `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return body.Fields, true
}

func intQuery(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
