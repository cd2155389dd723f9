package catalog

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// ProductStore is the persistence contract the catalog service runs on.
// Implementations map their storage errors onto the catalog error kinds
// (ErrNotFound, ErrStoreUnavailable).
type ProductStore interface {
	// ScanActive returns every active product
	ScanActive(ctx context.Context) ([]models.Product, error)
	// GetByID returns a product regardless of its active flag
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	// Deactivate soft-deletes a product (isActive=false)
	Deactivate(ctx context.Context, id int64) error
	// Delete removes the row entirely
	Delete(ctx context.Context, id int64) error
	// FindByExternalPair looks a product up by (source, externalID),
	// including inactive rows so an upsert never resurrects a duplicate
	FindByExternalPair(ctx context.Context, source, externalID string) (*models.Product, error)
}

// Service orchestrates catalog listings and writes over a ProductStore
type Service struct {
	store  ProductStore
	logger *logrus.Entry
}

// NewService creates a catalog service
func NewService(store ProductStore, logger *logrus.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.WithField("component", "catalog"),
	}
}

// List runs the listing pipeline: scan active products, filter, sort,
// paginate. The comparator is resolved before touching the store so an
// invalid sort field fails fast.
func (s *Service) List(ctx context.Context, filter FilterSpec, sortSpec SortSpec, page PageRequest) (*PageResult, error) {
	cmp, err := ResolveComparator(sortSpec)
	if err != nil {
		return nil, err
	}

	products, err := s.store.ScanActive(ctx)
	if err != nil {
		return nil, err
	}

	pred := BuildPredicate(filter)
	matched := make([]models.Product, 0, len(products))
	for i := range products {
		if pred(&products[i]) {
			matched = append(matched, products[i])
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return cmp(&matched[i], &matched[j]) < 0
	})

	result := Paginate(matched, page)
	return &result, nil
}

// DistinctCategories returns the sorted set of categories of active products
func (s *Service) DistinctCategories(ctx context.Context) ([]string, error) {
	products, err := s.store.ScanActive(ctx)
	if err != nil {
		return nil, err
	}
	return distinct(products, func(p *models.Product) (string, bool) {
		return p.Category, p.Category != ""
	}), nil
}

// DistinctBrands returns the sorted set of non-null brands of active products
func (s *Service) DistinctBrands(ctx context.Context) ([]string, error) {
	products, err := s.store.ScanActive(ctx)
	if err != nil {
		return nil, err
	}
	return distinct(products, func(p *models.Product) (string, bool) {
		if p.Brand == nil || *p.Brand == "" {
			return "", false
		}
		return *p.Brand, true
	}), nil
}

// PriceRange returns the min and max price over active products. Both
// bounds are nil when no active products exist.
func (s *Service) PriceRange(ctx context.Context) (models.PriceRange, error) {
	products, err := s.store.ScanActive(ctx)
	if err != nil {
		return models.PriceRange{}, err
	}

	var rng models.PriceRange
	for i := range products {
		price := products[i].Price
		if rng.Min == nil || price.Cmp(*rng.Min) < 0 {
			p := price
			rng.Min = &p
		}
		if rng.Max == nil || price.Cmp(*rng.Max) > 0 {
			p := price
			rng.Max = &p
		}
	}
	return rng, nil
}

// Get fetches a single product by ID
func (s *Service) Get(ctx context.Context, id int64) (*models.Product, error) {
	return s.store.GetByID(ctx, id)
}

// Create validates and stores a new product
func (s *Service) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	product := models.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Brand:       req.Brand,
		Thumbnail:   req.Thumbnail,
		Images:      req.Images,
		IsActive:    true,
	}
	if req.DiscountPercentage != nil {
		product.DiscountPercentage = *req.DiscountPercentage
	}
	if req.Rating != nil {
		product.Rating = *req.Rating
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := validateProduct(&product); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, &product); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"productId": product.ID,
		"title":     product.Title,
	}).Info("Product created")
	return &product, nil
}

// Update applies a partial update to an existing product
func (s *Service) Update(ctx context.Context, id int64, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.DiscountPercentage != nil {
		product.DiscountPercentage = *req.DiscountPercentage
	}
	if req.Rating != nil {
		product.Rating = *req.Rating
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Brand != nil {
		product.Brand = req.Brand
	}
	if req.Thumbnail != nil {
		product.Thumbnail = *req.Thumbnail
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.WithField("productId", product.ID).Info("Product updated")
	return product, nil
}

// Deactivate soft-deletes a product; it stays in the store but disappears
// from listings, distincts and the price range.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if err := s.store.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("productId", id).Info("Product deactivated")
	return nil
}

// Delete removes a product permanently
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("productId", id).Info("Product deleted")
	return nil
}

// LookupByExternalPair finds the product imported from (source, externalID),
// active or not. Returns ErrNotFound when the pair was never imported.
func (s *Service) LookupByExternalPair(ctx context.Context, source, externalID string) (*models.Product, error) {
	return s.store.FindByExternalPair(ctx, source, externalID)
}

// UpsertByExternalID creates or updates the product identified by
// (source, externalID). Calling it twice with the same pair always results
// in exactly one record carrying the attributes of the last call. The
// returned bool is true when a new record was created.
func (s *Service) UpsertByExternalID(ctx context.Context, source, externalID string, attrs models.ProductAttrs) (*models.Product, bool, error) {
	if source == "" {
		return nil, false, invalidField("externalSource", "must not be empty")
	}
	if externalID == "" {
		return nil, false, invalidField("externalId", "must not be empty")
	}

	product := models.Product{
		Title:              attrs.Title,
		Description:        attrs.Description,
		Price:              attrs.Price,
		DiscountPercentage: attrs.DiscountPercentage,
		Rating:             attrs.Rating,
		Stock:              attrs.Stock,
		Category:           attrs.Category,
		Brand:              attrs.Brand,
		Thumbnail:          attrs.Thumbnail,
		Images:             attrs.Images,
		ExternalID:         &externalID,
		ExternalSource:     &source,
		IsActive:           true,
	}
	if err := validateProduct(&product); err != nil {
		return nil, false, err
	}

	existing, err := s.store.FindByExternalPair(ctx, source, externalID)
	switch {
	case err == nil:
		product.ID = existing.ID
		product.CreatedAt = existing.CreatedAt
		if err := s.store.Update(ctx, &product); err != nil {
			return nil, false, err
		}
		return &product, false, nil
	case isNotFound(err):
		if err := s.store.Create(ctx, &product); err != nil {
			return nil, false, err
		}
		s.logger.WithFields(logrus.Fields{
			"productId":  product.ID,
			"source":     source,
			"externalId": externalID,
		}).Info("Product imported")
		return &product, true, nil
	default:
		return nil, false, err
	}
}

var (
	maxDiscount = decimal.NewFromInt(100)
)

func validateProduct(p *models.Product) error {
	if p.Title == "" {
		return invalidField("title", "must not be empty")
	}
	if p.Price.IsNegative() {
		return invalidField("price", "must not be negative")
	}
	if p.DiscountPercentage.IsNegative() || p.DiscountPercentage.Cmp(maxDiscount) > 0 {
		return invalidField("discountPercentage", "must be between 0 and 100")
	}
	if p.Rating < 0 || p.Rating > 5 {
		return invalidField("rating", "must be between 0 and 5")
	}
	if p.Stock < 0 {
		return invalidField("stock", "must not be negative")
	}
	return nil
}

func distinct(products []models.Product, key func(*models.Product) (string, bool)) []string {
	seen := make(map[string]struct{}, len(products))
	values := make([]string, 0, len(products))
	for i := range products {
		v, ok := key(&products[i])
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
