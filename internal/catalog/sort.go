package catalog

import (
	"fmt"
	"strings"

	"catalog-service/internal/models"
)

// SortDirection orders a listing ascending or descending
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec names the sort key and direction for a listing
type SortSpec struct {
	Field     string
	Direction SortDirection
}

// DefaultSort lists newest products first
func DefaultSort() SortSpec {
	return SortSpec{Field: "id", Direction: SortDesc}
}

// Comparator is a three-way product ordering: negative when a sorts
// before b, zero never (ties are broken by id ascending).
type Comparator func(a, b *models.Product) int

// keyComparators maps a sort field to its ascending three-way compare.
var keyComparators = map[string]Comparator{
	"id": func(a, b *models.Product) int {
		return compareInt64(a.ID, b.ID)
	},
	"title": func(a, b *models.Product) int {
		return strings.Compare(a.Title, b.Title)
	},
	"price": func(a, b *models.Product) int {
		return a.Price.Cmp(b.Price)
	},
	"rating": func(a, b *models.Product) int {
		return compareFloat64(a.Rating, b.Rating)
	},
	"stock": func(a, b *models.Product) int {
		return compareInt64(int64(a.Stock), int64(b.Stock))
	},
	"createdAt": func(a, b *models.Product) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	},
	"updatedAt": func(a, b *models.Product) int {
		return a.UpdatedAt.Compare(b.UpdatedAt)
	},
}

// ResolveComparator turns a SortSpec into a total ordering. Products equal
// on the requested key always fall back to id ascending, regardless of
// direction, so a listing order is deterministic. An unrecognized field is
// rejected rather than silently replaced by a default.
func ResolveComparator(spec SortSpec) (Comparator, error) {
	key, ok := keyComparators[spec.Field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortField, spec.Field)
	}

	desc := spec.Direction == SortDesc
	return func(a, b *models.Product) int {
		c := key(a, b)
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return compareInt64(a.ID, b.ID)
	}, nil
}

// SortFields returns the recognized sort field names
func SortFields() []string {
	fields := make([]string, 0, len(keyComparators))
	for f := range keyComparators {
		fields = append(fields, f)
	}
	return fields
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
