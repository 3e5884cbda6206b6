package query

import "math"

// maxPage keeps (page-1)*limit inside int for any clamped limit.
const maxPage = math.MaxInt / MaxLimit

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Clamp applies the page and limit bounds used by every paged listing.
func Clamp(page, limit int) (int, int) {
	return clampPage(page, limit)
}

// NewPagination describes a page the store already sliced.
func NewPagination(page, limit, total int) Pagination {
	page, limit = clampPage(page, limit)
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
}

// Paginate slices items for the requested page. A page past the end yields
// an empty, non-nil slice.
func Paginate[T any](items []T, page, limit int) ([]T, Pagination) {
	p := NewPagination(page, limit, len(items))
	total := p.Total

	if p.Page > p.TotalPages {
		return []T{}, p
	}
	start := (p.Page - 1) * p.Limit
	end := start + p.Limit
	if end > total {
		end = total
	}
	return items[start:end], p
}
