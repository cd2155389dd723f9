package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"catalog-service/internal/models"
)

// FilterSpec describes the listing filters. Nil/empty options contribute
// no constraint; all present options are combined with AND.
type FilterSpec struct {
	Search    string
	Category  string
	Brand     string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	MinRating *float64
	MaxRating *float64
	InStock   *bool
}

// Predicate is a product membership test
type Predicate func(p *models.Product) bool

// BuildPredicate compiles a FilterSpec into a single predicate.
//
// The search term is a case-insensitive substring match satisfied by any
// of title, description, category or brand. Price and rating bounds are
// inclusive; an inverted range (min > max) is legal and matches nothing.
func BuildPredicate(spec FilterSpec) Predicate {
	preds := make([]Predicate, 0, 6)

	if term := strings.TrimSpace(spec.Search); term != "" {
		needle := strings.ToLower(term)
		preds = append(preds, func(p *models.Product) bool {
			if strings.Contains(strings.ToLower(p.Title), needle) {
				return true
			}
			if strings.Contains(strings.ToLower(p.Description), needle) {
				return true
			}
			if strings.Contains(strings.ToLower(p.Category), needle) {
				return true
			}
			return p.Brand != nil && strings.Contains(strings.ToLower(*p.Brand), needle)
		})
	}

	if spec.Category != "" {
		category := spec.Category
		preds = append(preds, func(p *models.Product) bool {
			return p.Category == category
		})
	}

	if spec.Brand != "" {
		brand := spec.Brand
		preds = append(preds, func(p *models.Product) bool {
			return p.Brand != nil && *p.Brand == brand
		})
	}

	if spec.MinPrice != nil {
		min := *spec.MinPrice
		preds = append(preds, func(p *models.Product) bool {
			return p.Price.Cmp(min) >= 0
		})
	}

	if spec.MaxPrice != nil {
		max := *spec.MaxPrice
		preds = append(preds, func(p *models.Product) bool {
			return p.Price.Cmp(max) <= 0
		})
	}

	if spec.MinRating != nil {
		min := *spec.MinRating
		preds = append(preds, func(p *models.Product) bool {
			return p.Rating >= min
		})
	}

	if spec.MaxRating != nil {
		max := *spec.MaxRating
		preds = append(preds, func(p *models.Product) bool {
			return p.Rating <= max
		})
	}

	if spec.InStock != nil {
		inStock := *spec.InStock
		preds = append(preds, func(p *models.Product) bool {
			if inStock {
				return p.Stock > 0
			}
			return p.Stock == 0
		})
	}

	return func(p *models.Product) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}
}
