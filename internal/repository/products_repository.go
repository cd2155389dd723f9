package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
)

const (
	activeScanCacheKey = "catalog:products:active"
	productCacheKeyFmt = "catalog:product:%d"
	productCacheTTL    = 5 * time.Minute
)

// ProductsRepository is the GORM-backed product store with an optional
// Redis read cache in front of the hot paths (active scan, by-id lookup).
// A nil Redis client disables caching entirely.
type ProductsRepository struct {
	db     *gorm.DB
	redis  *redis.Client
	logger *logrus.Entry
}

var _ catalog.ProductStore = (*ProductsRepository)(nil)

// NewProductsRepository creates a new products repository
func NewProductsRepository(db *gorm.DB, redisClient *redis.Client, logger *logrus.Logger) *ProductsRepository {
	return &ProductsRepository{
		db:     db,
		redis:  redisClient,
		logger: logger.WithField("component", "products-repository"),
	}
}

// ScanActive returns every active product, ordered by id so cached and
// uncached reads agree.
func (r *ProductsRepository) ScanActive(ctx context.Context) ([]models.Product, error) {
	if cached, ok := r.cachedScan(ctx); ok {
		return cached, nil
	}

	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&products).Error; err != nil {
		return nil, r.storeError("scan products", err)
	}

	r.cacheScan(ctx, products)
	return products, nil
}

// GetByID returns a product by primary key, active or not
func (r *ProductsRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	if cached, ok := r.cachedProduct(ctx, id); ok {
		return cached, nil
	}

	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", catalog.ErrNotFound, id)
		}
		return nil, r.storeError("get product", err)
	}

	r.cacheProduct(ctx, &product)
	return &product, nil
}

// Create inserts a new product
func (r *ProductsRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return r.storeError("create product", err)
	}
	r.invalidate(ctx, product.ID)
	return nil
}

// Update saves the full product row
func (r *ProductsRepository) Update(ctx context.Context, product *models.Product) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(product)
	if result.Error != nil {
		return r.storeError("update product", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", catalog.ErrNotFound, product.ID)
	}
	r.invalidate(ctx, product.ID)
	return nil
}

// Deactivate flips a product to inactive without removing the row
func (r *ProductsRepository) Deactivate(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return r.storeError("deactivate product", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", catalog.ErrNotFound, id)
	}
	r.invalidate(ctx, id)
	return nil
}

// Delete removes the product row permanently
func (r *ProductsRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if result.Error != nil {
		return r.storeError("delete product", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", catalog.ErrNotFound, id)
	}
	r.invalidate(ctx, id)
	return nil
}

// FindByExternalPair looks a product up by its (source, externalID) pair,
// including inactive rows so upserts update instead of duplicating.
func (r *ProductsRepository) FindByExternalPair(ctx context.Context, source, externalID string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("external_source = ? AND external_id = ?", source, externalID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", catalog.ErrNotFound, source, externalID)
		}
		return nil, r.storeError("find product by external pair", err)
	}
	return &product, nil
}

func (r *ProductsRepository) storeError(op string, err error) error {
	r.logger.WithError(err).Error("Database operation failed: " + op)
	return fmt.Errorf("%w: %s: %v", catalog.ErrStoreUnavailable, op, err)
}

// --- cache helpers ---

func (r *ProductsRepository) cachedScan(ctx context.Context) ([]models.Product, bool) {
	if r.redis == nil {
		return nil, false
	}
	data, err := r.redis.Get(ctx, activeScanCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		r.logger.WithError(err).Warn("Failed to decode cached product scan")
		return nil, false
	}
	return products, true
}

func (r *ProductsRepository) cacheScan(ctx context.Context, products []models.Product) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, activeScanCacheKey, data, productCacheTTL).Err(); err != nil {
		r.logger.WithError(err).Warn("Failed to cache product scan")
	}
}

func (r *ProductsRepository) cachedProduct(ctx context.Context, id int64) (*models.Product, bool) {
	if r.redis == nil {
		return nil, false
	}
	data, err := r.redis.Get(ctx, fmt.Sprintf(productCacheKeyFmt, id)).Bytes()
	if err != nil {
		return nil, false
	}
	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, false
	}
	return &product, true
}

func (r *ProductsRepository) cacheProduct(ctx context.Context, product *models.Product) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	key := fmt.Sprintf(productCacheKeyFmt, product.ID)
	if err := r.redis.Set(ctx, key, data, productCacheTTL).Err(); err != nil {
		r.logger.WithError(err).Warn("Failed to cache product")
	}
}

// invalidate drops the scan cache and the per-product entry after any write
func (r *ProductsRepository) invalidate(ctx context.Context, id int64) {
	if r.redis == nil {
		return
	}
	keys := []string{activeScanCacheKey, fmt.Sprintf(productCacheKeyFmt, id)}
	if err := r.redis.Del(ctx, keys...).Err(); err != nil {
		r.logger.WithError(err).Warn("Failed to invalidate product caches")
	}
}
