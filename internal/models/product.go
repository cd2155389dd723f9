package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ImageList stores a list of image URLs as a JSON column.
type ImageList []string

// Value implements driver.Valuer for GORM
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for GORM
func (l *ImageList) Scan(value interface{}) error {
	if value == nil {
		*l = ImageList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for ImageList: %T", value)
	}
}

// Product represents a catalog product
type Product struct {
	ID                 int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	Title              string          `json:"title" gorm:"type:varchar(255);not null;index"`
	Description        string          `json:"description" gorm:"type:text"`
	Price              decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null;index"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage" gorm:"type:decimal(5,2);not null;default:0"`
	Rating             float64         `json:"rating" gorm:"type:decimal(3,2);not null;default:0;index"`
	Stock              int             `json:"stock" gorm:"not null;default:0"`
	Category           string          `json:"category" gorm:"type:varchar(120);index"`
	Brand              *string         `json:"brand" gorm:"type:varchar(120);index"`
	Thumbnail          string          `json:"thumbnail" gorm:"type:text"`
	Images             ImageList       `json:"images" gorm:"type:jsonb"`
	ExternalID         *string         `json:"externalId,omitempty" gorm:"type:varchar(120);uniqueIndex:idx_products_external_pair"`
	ExternalSource     *string         `json:"externalSource,omitempty" gorm:"type:varchar(60);uniqueIndex:idx_products_external_pair"`
	IsActive           bool            `json:"isActive" gorm:"not null;default:true;index"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for Product
func (Product) TableName() string {
	return "products"
}

// DiscountedPrice returns the effective price after applying the discount
// percentage, rounded to 2 decimal places.
func (p *Product) DiscountedPrice() decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	factor := hundred.Sub(p.DiscountPercentage).Div(hundred)
	return p.Price.Mul(factor).Round(2)
}

// CreateProductRequest represents the request to create a product
type CreateProductRequest struct {
	Title              string           `json:"title" binding:"required"`
	Description        string           `json:"description"`
	Price              decimal.Decimal  `json:"price"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage"`
	Rating             *float64         `json:"rating"`
	Stock              *int             `json:"stock"`
	Category           string           `json:"category"`
	Brand              *string          `json:"brand"`
	Thumbnail          string           `json:"thumbnail"`
	Images             []string         `json:"images"`
}

// UpdateProductRequest represents a partial update; nil fields are left unchanged
type UpdateProductRequest struct {
	Title              *string          `json:"title"`
	Description        *string          `json:"description"`
	Price              *decimal.Decimal `json:"price"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage"`
	Rating             *float64         `json:"rating"`
	Stock              *int             `json:"stock"`
	Category           *string          `json:"category"`
	Brand              *string          `json:"brand"`
	Thumbnail          *string          `json:"thumbnail"`
	Images             []string         `json:"images"`
	IsActive           *bool            `json:"isActive"`
}

// ProductAttrs carries the attributes applied by an external-pair upsert.
// Every field is set on both create and update.
type ProductAttrs struct {
	Title              string
	Description        string
	Price              decimal.Decimal
	DiscountPercentage decimal.Decimal
	Rating             float64
	Stock              int
	Category           string
	Brand              *string
	Thumbnail          string
	Images             []string
}

// PaginationInfo represents pagination metadata for list responses
type PaginationInfo struct {
	Page        int      `json:"page"`
	PageSize    int      `json:"pageSize"`
	TotalItems  int64    `json:"totalItems"`
	TotalPages  int      `json:"totalPages"`
	HasNext     bool     `json:"hasNext"`
	HasPrevious bool     `json:"hasPrevious"`
	PageNumbers []string `json:"pageNumbers"`
}

// ProductView is the API representation of a product, including the
// computed discounted price.
type ProductView struct {
	Product
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
}

// NewProductView builds the response shape for a product
func NewProductView(p Product) ProductView {
	return ProductView{Product: p, DiscountedPrice: p.DiscountedPrice()}
}

// ProductResponse represents a single product response
type ProductResponse struct {
	Success bool        `json:"success"`
	Data    ProductView `json:"data"`
}

// ProductListResponse represents a paginated product list response
type ProductListResponse struct {
	Success    bool           `json:"success"`
	Data       []ProductView  `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
}

// PriceRangeResponse reports the min/max price across active products.
// Both values are null when the catalog has no active products.
type PriceRangeResponse struct {
	Success bool       `json:"success"`
	Data    PriceRange `json:"data"`
}

// PriceRange holds the price bounds of the active catalog
type PriceRange struct {
	Min *decimal.Decimal `json:"min"`
	Max *decimal.Decimal `json:"max"`
}

// StringListResponse wraps distinct-value listings (categories, brands)
type StringListResponse struct {
	Success bool     `json:"success"`
	Data    []string `json:"data"`
}

// SyncResponse reports the outcome of an external feed sync
type SyncResponse struct {
	Success bool       `json:"success"`
	Data    SyncResult `json:"data"`
}

// SyncResult counts what a feed sync did
type SyncResult struct {
	Source  string `json:"source"`
	Fetched int    `json:"fetched"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Failed  int    `json:"failed"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

// Error represents error details
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Field   string      `json:"field,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
