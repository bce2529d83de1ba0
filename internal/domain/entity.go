package domain

import "fmt"

// EntityDef describes one registry screen: which collection it maps to,
// which record fields participate in free-text search, and which field
// carries the category used for exact-match filtering.
type EntityDef struct {
	// Name is the route segment and the persisted collection key.
	Name string
	// Title is the human-readable name used in logs and notifications.
	Title string
	// SearchFields are matched case-insensitively as substrings.
	SearchFields []string
	// CategoryField is compared for equality; empty means the entity has
	// no category filter.
	CategoryField string
}

// Registry maps entity route names to their definitions. Handlers and
// controllers resolve entities only through it; there is no dynamic
// module loading.
type Registry struct {
	defs  map[string]EntityDef
	order []string
}

// NewRegistry builds a registry from the given definitions, preserving order.
func NewRegistry(defs ...EntityDef) (*Registry, error) {
	r := &Registry{defs: make(map[string]EntityDef, len(defs))}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("entity registry: empty name")
		}
		if _, dup := r.defs[d.Name]; dup {
			return nil, fmt.Errorf("entity registry: duplicate entity %q", d.Name)
		}
		r.defs[d.Name] = d
		r.order = append(r.order, d.Name)
	}
	return r, nil
}

// Lookup resolves an entity by route name.
// Returns ErrNotFound for unknown entities.
func (r *Registry) Lookup(name string) (EntityDef, error) {
	d, ok := r.defs[name]
	if !ok {
		return EntityDef{}, fmt.Errorf("entity %q: %w", name, ErrNotFound)
	}
	return d, nil
}

// Names returns entity names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DefaultRegistry returns the built-in quality-management entity catalog.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		EntityDef{Name: "mejoras", Title: "Mejoras", SearchFields: []string{"titulo", "descripcion", "responsable"}, CategoryField: "estado"},
		EntityDef{Name: "personal", Title: "Personal", SearchFields: []string{"nombre", "apellidos", "puesto"}, CategoryField: "departamento"},
		EntityDef{Name: "procesos", Title: "Procesos", SearchFields: []string{"nombre", "descripcion", "propietario"}, CategoryField: "tipo"},
		EntityDef{Name: "auditorias", Title: "Auditorías", SearchFields: []string{"titulo", "auditor", "alcance"}, CategoryField: "estado"},
		EntityDef{Name: "indicadores", Title: "Indicadores", SearchFields: []string{"nombre", "formula", "responsable"}, CategoryField: "proceso"},
		EntityDef{Name: "puntos-norma", Title: "Puntos de norma", SearchFields: []string{"codigo", "titulo", "descripcion"}, CategoryField: "capitulo"},
		EntityDef{Name: "documentos", Title: "Documentos", SearchFields: []string{"codigo", "titulo"}, CategoryField: "tipo"},
	)
	if err != nil {
		// The built-in catalog is static; a failure here is a programming error.
		panic(err)
	}
	return r
}
