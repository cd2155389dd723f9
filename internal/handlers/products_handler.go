package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/catalog"
	"catalog-service/internal/events"
	"catalog-service/internal/models"
	"catalog-service/internal/syncer"
)

// ProductsHandler handles product endpoints
type ProductsHandler struct {
	service   *catalog.Service
	syncer    *syncer.Syncer
	publisher *events.Publisher
	logger    *logrus.Entry
}

// NewProductsHandler creates a new products handler
func NewProductsHandler(service *catalog.Service, feedSyncer *syncer.Syncer, publisher *events.Publisher, logger *logrus.Logger) *ProductsHandler {
	return &ProductsHandler{
		service:   service,
		syncer:    feedSyncer,
		publisher: publisher,
		logger:    logger.WithField("component", "products-handler"),
	}
}

// ListProducts lists products with filtering, sorting and pagination
// @Summary List products
// @Description Lists active products with filters, sorting and pagination
// @Tags products
// @Produce json
// @Param search query string false "Case-insensitive search over title, description, category and brand"
// @Param category query string false "Exact category match"
// @Param brand query string false "Exact brand match"
// @Param minPrice query number false "Inclusive lower price bound"
// @Param maxPrice query number false "Inclusive upper price bound"
// @Param minRating query number false "Inclusive lower rating bound"
// @Param maxRating query number false "Inclusive upper rating bound"
// @Param inStock query boolean false "true: stock > 0, false: stock == 0"
// @Param sortBy query string false "id, title, price, rating, stock, createdAt, updatedAt" default(id)
// @Param sortDir query string false "asc or desc" default(desc)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size, clamped to [1,100]" default(20)
// @Success 200 {object} models.ProductListResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/products [get]
func (h *ProductsHandler) ListProducts(c *gin.Context) {
	filter, err := parseFilterSpec(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	sortSpec := catalog.DefaultSort()
	if field := c.Query("sortBy"); field != "" {
		sortSpec.Field = field
	}
	switch c.DefaultQuery("sortDir", string(sortSpec.Direction)) {
	case "asc":
		sortSpec.Direction = catalog.SortAsc
	case "desc":
		sortSpec.Direction = catalog.SortDesc
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(catalog.DefaultPageSize)))

	result, err := h.service.List(c.Request.Context(), filter, sortSpec, catalog.PageRequest{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	views := make([]models.ProductView, len(result.Items))
	for i := range result.Items {
		views[i] = models.NewProductView(result.Items[i])
	}

	c.JSON(http.StatusOK, models.ProductListResponse{
		Success:    true,
		Data:       views,
		Pagination: result.Pagination(),
	})
}

// GetProduct fetches a product by ID
// @Summary Get product
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.ProductResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/products/{id} [get]
func (h *ProductsHandler) GetProduct(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	product, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{Success: true, Data: models.NewProductView(*product)})
}

// CreateProduct creates a new product
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param product body models.CreateProductRequest true "Product"
// @Success 201 {object} models.ProductResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/products [post]
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_REQUEST",
				Message: "Invalid request body: " + err.Error(),
			},
		})
		return
	}

	product, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.publisher.PublishProductCreated(product)
	c.JSON(http.StatusCreated, models.ProductResponse{Success: true, Data: models.NewProductView(*product)})
}

// UpdateProduct applies a partial update to a product
// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body models.UpdateProductRequest true "Fields to update"
// @Success 200 {object} models.ProductResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/products/{id} [put]
func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_REQUEST",
				Message: "Invalid request body: " + err.Error(),
			},
		})
		return
	}

	product, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.publisher.PublishProductUpdated(product)
	c.JSON(http.StatusOK, models.ProductResponse{Success: true, Data: models.NewProductView(*product)})
}

// DeleteProduct soft-deletes a product; ?hard=true removes the row
// @Summary Delete product
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Param hard query boolean false "Permanently remove the row" default(false)
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/products/{id} [delete]
func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	hard := c.DefaultQuery("hard", "false") == "true"

	var err error
	if hard {
		err = h.service.Delete(c.Request.Context(), id)
	} else {
		err = h.service.Deactivate(c.Request.Context(), id)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.publisher.PublishProductDeleted(id)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted",
		"hard":    hard,
	})
}

// ListCategories lists the distinct categories of active products
// @Summary List categories
// @Tags products
// @Produce json
// @Success 200 {object} models.StringListResponse
// @Router /api/v1/products/categories [get]
func (h *ProductsHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.DistinctCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.StringListResponse{Success: true, Data: categories})
}

// ListBrands lists the distinct brands of active products
// @Summary List brands
// @Tags products
// @Produce json
// @Success 200 {object} models.StringListResponse
// @Router /api/v1/products/brands [get]
func (h *ProductsHandler) ListBrands(c *gin.Context) {
	brands, err := h.service.DistinctBrands(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.StringListResponse{Success: true, Data: brands})
}

// GetPriceRange reports the min/max price across active products
// @Summary Price range
// @Tags products
// @Produce json
// @Success 200 {object} models.PriceRangeResponse
// @Router /api/v1/products/price-range [get]
func (h *ProductsHandler) GetPriceRange(c *gin.Context) {
	rng, err := h.service.PriceRange(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.PriceRangeResponse{Success: true, Data: rng})
}

// SyncProducts pulls an external feed and upserts its products
// @Summary Sync external feed
// @Tags products
// @Produce json
// @Param source path string true "Feed source (dummyjson, fakestore)"
// @Success 200 {object} models.SyncResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/products/sync/{source} [post]
func (h *ProductsHandler) SyncProducts(c *gin.Context) {
	source := c.Param("source")

	result, err := h.syncer.Sync(c.Request.Context(), source)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SyncResponse{Success: true, Data: result})
}

func (h *ProductsHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_PRODUCT_ID",
				Message: "Product ID must be an integer",
				Field:   "id",
			},
		})
		return 0, false
	}
	return id, true
}

// respondError maps catalog error kinds onto HTTP statuses
func (h *ProductsHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "PRODUCT_NOT_FOUND", Message: "Product not found"},
		})
	case errors.Is(err, catalog.ErrInvalidSortField):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_SORT_FIELD",
				Message: err.Error(),
				Field:   "sortBy",
				Details: catalog.SortFields(),
			},
		})
	case errors.Is(err, catalog.ErrValidationFailed):
		e := models.Error{Code: "VALIDATION_FAILED", Message: err.Error()}
		var vErr *catalog.ValidationError
		if errors.As(err, &vErr) {
			e.Field = vErr.Field
			e.Message = vErr.Message
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Error: e})
	case errors.Is(err, catalog.ErrStoreUnavailable):
		h.logger.WithError(err).Error("Store unavailable")
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "STORE_UNAVAILABLE", Message: "Product store is unavailable"},
		})
	default:
		h.logger.WithError(err).Error("Unhandled error")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "INTERNAL_ERROR", Message: "Internal server error"},
		})
	}
}

// parseFilterSpec reads the listing filter options from the query string.
// Unrecognized query keys are ignored; malformed values for recognized
// keys are rejected.
func parseFilterSpec(c *gin.Context) (catalog.FilterSpec, error) {
	spec := catalog.FilterSpec{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
	}

	if raw := c.Query("minPrice"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return spec, &catalog.ValidationError{Field: "minPrice", Message: "must be a decimal number"}
		}
		spec.MinPrice = &d
	}
	if raw := c.Query("maxPrice"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return spec, &catalog.ValidationError{Field: "maxPrice", Message: "must be a decimal number"}
		}
		spec.MaxPrice = &d
	}
	if raw := c.Query("minRating"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return spec, &catalog.ValidationError{Field: "minRating", Message: "must be a number"}
		}
		spec.MinRating = &f
	}
	if raw := c.Query("maxRating"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return spec, &catalog.ValidationError{Field: "maxRating", Message: "must be a number"}
		}
		spec.MaxRating = &f
	}
	if raw := c.Query("inStock"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return spec, &catalog.ValidationError{Field: "inStock", Message: "must be a boolean"}
		}
		spec.InStock = &b
	}

	return spec, nil
}
