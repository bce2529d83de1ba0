package list

import "github.com/osanchezal/sgc-backend/internal/domain"

// DefaultPageSize is used when a caller does not specify one.
const DefaultPageSize = 10

// PageInfo describes the pagination state derived from a collection size.
type PageInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// TotalPages returns ceil(itemCount / pageSize); 0 for an empty collection.
func TotalPages(itemCount, pageSize int) int {
	if pageSize <= 0 || itemCount <= 0 {
		return 0
	}
	return (itemCount + pageSize - 1) / pageSize
}

// ClampPage clamps a 1-based page number into [1, totalPages]. When
// totalPages is 0 (empty collection) the page clamps to 1, which yields
// an empty slice.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate slices one page out of the collection. The page number is
// clamped first, so repeated calls with the same target are idempotent.
func Paginate(c domain.Collection, pageSize, page int) (domain.Collection, PageInfo) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := TotalPages(len(c), pageSize)
	page = ClampPage(page, total)

	info := PageInfo{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: len(c),
		TotalPages: total,
	}

	start := (page - 1) * pageSize
	if start >= len(c) {
		return domain.Collection{}, info
	}
	end := start + pageSize
	if end > len(c) {
		end = len(c)
	}
	return c[start:end], info
}
