package database

import "strings"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListParams carries the list-view controls shared by every collection endpoint.
type ListParams struct {
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
	Sort     string `query:"sort"`
	Order    string `query:"order"`
	Search   string `query:"search"`
}

// Normalize clamps paging and replaces a sort column outside allowed with
// fallback. The returned copy is safe to hand to QueryBuilder.Paginate.
func (p ListParams) Normalize(allowed []string, fallback string) ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}

	sort := strings.ToLower(strings.TrimSpace(p.Sort))
	p.Sort = fallback
	for _, col := range allowed {
		if sort == col {
			p.Sort = col
			break
		}
	}

	if strings.EqualFold(p.Order, "desc") {
		p.Order = "DESC"
	} else {
		p.Order = "ASC"
	}
	p.Search = strings.TrimSpace(p.Search)
	return p
}

func (p ListParams) Limit() int {
	return p.PageSize
}

func (p ListParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Page is one slice of a list view plus the total row count.
type Page[T any] struct {
	Items      []*T  `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
}

// NewPage builds a page, never returning a nil item slice.
func NewPage[T any](items []*T, total int64, p ListParams) *Page[T] {
	if items == nil {
		items = []*T{}
	}
	var pages int64
	if p.PageSize > 0 {
		pages = (total + int64(p.PageSize) - 1) / int64(p.PageSize)
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: pages,
	}
}
