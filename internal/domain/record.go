// Package domain holds the core types of the quality-management registry:
// records, collections, the entity catalog, users, and the shared error
// taxonomy. It has no dependencies on storage or transport.
package domain

import (
	"encoding/json"
	"maps"
	"time"
)

// Record is one domain entity instance (an improvement finding, a person,
// an audit, ...). Domain fields are carried opaquely in Fields; the service
// layer never interprets them beyond search and category matching.
//
// ID zero means "not yet persisted". IDs are unique within a collection and
// assigned by the list controller from a monotonic counter.
type Record struct {
	ID        int64          `json:"id"`
	Fields    map[string]any `json:"fields"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt *time.Time     `json:"updatedAt,omitempty"`
}

// Clone returns a deep-enough copy of the record: the Fields map is copied
// so callers can mutate the clone without aliasing the original. Nested
// values inside Fields are shared; collections treat them as immutable.
func (r Record) Clone() Record {
	out := r
	if r.Fields != nil {
		out.Fields = maps.Clone(r.Fields)
	}
	return out
}

// StringField returns the named field rendered as a string, or "" when the
// field is absent or not a string. Search and category matching go through
// this accessor.
func (r Record) StringField(name string) string {
	if r.Fields == nil {
		return ""
	}
	switch v := r.Fields[name].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// Collection is the full ordered set of records for one entity type.
// It is persisted as a unit: a write always replaces the whole snapshot.
type Collection []Record

// Clone copies the collection, cloning each record.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i, r := range c {
		out[i] = r.Clone()
	}
	return out
}

// MaxID returns the largest record ID in the collection, or 0 when empty.
// Controllers seed their ID counter from it.
func (c Collection) MaxID() int64 {
	var max int64
	for _, r := range c {
		if r.ID > max {
			max = r.ID
		}
	}
	return max
}

// IndexOf returns the position of the record with the given ID, or -1.
func (c Collection) IndexOf(id int64) int {
	for i, r := range c {
		if r.ID == id {
			return i
		}
	}
	return -1
}
