package list

import (
	"strings"

	"github.com/osanchezal/sgc-backend/internal/domain"
)

// Matches reports whether a record passes the free-text term and category
// criteria for the given entity definition. Term matching is case-insensitive
// substring over the entity's searchable fields; category is exact equality
// against the entity's category field (empty category matches everything).
func Matches(def domain.EntityDef, r domain.Record, term, category string) bool {
	if category != "" && def.CategoryField != "" {
		if r.StringField(def.CategoryField) != category {
			return false
		}
	}

	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range def.SearchFields {
		if strings.Contains(strings.ToLower(r.StringField(f)), term) {
			return true
		}
	}
	return false
}

// Filter returns the subsequence of records matching both criteria,
// preserving collection order. Criteria are independent, so applying them
// in either order yields the same result set.
func Filter(def domain.EntityDef, c domain.Collection, term, category string) domain.Collection {
	out := make(domain.Collection, 0, len(c))
	for _, r := range c {
		if Matches(def, r, term, category) {
			out = append(out, r)
		}
	}
	return out
}
