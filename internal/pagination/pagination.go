// Package pagination provides limit/offset normalization and response
// metadata shared by all list endpoints.
package pagination

// DefaultLimit is used when the caller does not specify a page size.
const DefaultLimit = 10

// MaxLimit caps the page size a caller may request.
const MaxLimit = 100

// Page is a normalized limit/offset pair.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps limit and offset into valid ranges.
func Normalize(limit, offset int) Page {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Limit: limit, Offset: offset}
}

// Meta describes one page of a larger result set.
type Meta struct {
	TotalItems  int64
	Limit       int
	Offset      int
	TotalPages  int64
	CurrentPage int64
}

// NewMeta computes page counts for a total row count and page.
func NewMeta(total int64, p Page) Meta {
	limit := int64(p.Limit)
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return Meta{
		TotalItems:  total,
		Limit:       p.Limit,
		Offset:      p.Offset,
		TotalPages:  pages,
		CurrentPage: int64(p.Offset)/limit + 1,
	}
}
