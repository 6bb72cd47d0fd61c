package pagination

// DefaultPageSize is the standard catalog page size.
const DefaultPageSize = 12

// Params holds page-number pagination inputs from controllers.
type Params struct {
	Page     int
	PageSize int
}

// Meta describes the page that was actually served. Out-of-range requests
// clamp to the nearest valid page instead of erroring.
type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NormalizeSize enforces the default page size on non-positive input.
func NormalizeSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	return size
}

// TotalPages computes the page count for a result set; empty sets still
// report one page so clamping always has a valid target.
func TotalPages(totalItems int64, pageSize int) int {
	size := int64(NormalizeSize(pageSize))
	if totalItems <= 0 {
		return 1
	}
	pages := totalItems / size
	if totalItems%size != 0 {
		pages++
	}
	return int(pages)
}

// Clamp snaps a requested page number into [1, totalPages].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// MetaFor builds the page metadata for a clamped request.
func MetaFor(params Params, totalItems int64) Meta {
	size := NormalizeSize(params.PageSize)
	pages := TotalPages(totalItems, size)
	return Meta{
		Page:       Clamp(params.Page, pages),
		PageSize:   size,
		TotalItems: totalItems,
		TotalPages: pages,
	}
}

// Offset converts the clamped page into a SQL offset.
func (m Meta) Offset() int {
	return (m.Page - 1) * m.PageSize
}
