package domain

// RecordFilter contains filtering/pagination parameters for record listings.
type RecordFilter struct {
	// Search is matched case-insensitively as a substring of the entity's
	// searchable fields. Empty means no text filter.
	Search string
	// Category must equal the entity's category field exactly.
	// Empty means all categories.
	Category string
	// Page is 1-based. Out-of-range values are clamped, never rejected.
	Page     int
	PageSize int
}
