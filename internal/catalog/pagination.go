package catalog

import (
	"strconv"

	"catalog-service/internal/models"
)

const (
	// DefaultPageSize is used when no page size is supplied
	DefaultPageSize = 20
	// MaxPageSize is the upper clamp bound for page sizes
	MaxPageSize = 100
	// Ellipsis marks a gap in a windowed page-number list
	Ellipsis = "..."
)

// PageRequest selects a page of a listing
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize clamps the request into legal bounds: page to >= 1 and size
// to [1, MaxPageSize]. Defaulting an absent size is the caller's job;
// a supplied out-of-range size is clamped to the nearest bound.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = 1
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
	return r
}

// PageResult is one page of a listing plus its metadata
type PageResult struct {
	Items       []models.Product
	Page        int
	PageSize    int
	TotalItems  int64
	TotalPages  int
	HasNext     bool
	HasPrevious bool
	PageNumbers []string
}

// Paginate slices the already filtered and sorted items into the requested
// page. A page past the end yields empty items while keeping the requested
// page number in the metadata.
func Paginate(items []models.Product, req PageRequest) PageResult {
	req = req.Normalize()

	total := len(items)
	totalPages := (total + req.PageSize - 1) / req.PageSize

	start := (req.Page - 1) * req.PageSize
	end := start + req.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	page := make([]models.Product, end-start)
	copy(page, items[start:end])

	return PageResult{
		Items:       page,
		Page:        req.Page,
		PageSize:    req.PageSize,
		TotalItems:  int64(total),
		TotalPages:  totalPages,
		HasNext:     req.Page < totalPages,
		HasPrevious: req.Page > 1,
		PageNumbers: PageNumbers(totalPages, req.Page),
	}
}

// Pagination converts a PageResult into the API metadata shape
func (r PageResult) Pagination() models.PaginationInfo {
	return models.PaginationInfo{
		Page:        r.Page,
		PageSize:    r.PageSize,
		TotalItems:  r.TotalItems,
		TotalPages:  r.TotalPages,
		HasNext:     r.HasNext,
		HasPrevious: r.HasPrevious,
		PageNumbers: r.PageNumbers,
	}
}

// PageNumbers renders the windowed page-number strip shown by catalog
// browsers. Up to five pages are listed in full. Beyond that the strip
// always contains the first and last page, the current page with one
// neighbor on each side, and "..." markers wherever the strip skips pages.
func PageNumbers(totalPages, current int) []string {
	nums := make([]string, 0, 9)
	if totalPages <= 0 {
		return nums
	}

	if totalPages <= 5 {
		for p := 1; p <= totalPages; p++ {
			nums = append(nums, strconv.Itoa(p))
		}
		return nums
	}

	// Window of current±1, clipped to the interior pages.
	lo := current - 1
	hi := current + 1
	if lo < 2 {
		lo = 2
	}
	if hi > totalPages-1 {
		hi = totalPages - 1
	}

	nums = append(nums, "1")
	if lo > 2 {
		nums = append(nums, Ellipsis)
	}
	for p := lo; p <= hi; p++ {
		nums = append(nums, strconv.Itoa(p))
	}
	if hi < totalPages-1 {
		nums = append(nums, Ellipsis)
	}
	nums = append(nums, strconv.Itoa(totalPages))

	return nums
}
