package models

// ImportFormat represents the file format for import
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
)

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // string, number, boolean
	Example     string `json:"example"`
}

// ImportRowError represents an error for a specific row
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Success      bool             `json:"success"`
	BatchID      string           `json:"batchId"`
	TotalRows    int              `json:"totalRows"`
	SuccessCount int              `json:"successCount"`
	CreatedCount int              `json:"createdCount"`
	UpdatedCount int              `json:"updatedCount"`
	FailedCount  int              `json:"failedCount"`
	SkippedCount int              `json:"skippedCount"`
	Errors       []ImportRowError `json:"errors,omitempty"`
	CreatedIDs   []int64          `json:"createdIds,omitempty"`
	UpdatedIDs   []int64          `json:"updatedIds,omitempty"`
	ProcessingMs int64            `json:"processingMs"`
}

// ProductImportColumns returns the column definitions for product import
func ProductImportColumns() []ImportTemplateColumn {
	return []ImportTemplateColumn{
		{Name: "title", Description: "Product title", Required: true, Type: "string", Example: "Wireless Mouse"},
		{Name: "description", Description: "Product description", Required: false, Type: "string", Example: "Ergonomic 2.4GHz wireless mouse"},
		{Name: "price", Description: "Product price", Required: true, Type: "number", Example: "29.99"},
		{Name: "discountPercentage", Description: "Discount percentage (0-100)", Required: false, Type: "number", Example: "12.5"},
		{Name: "rating", Description: "Average rating (0-5)", Required: false, Type: "number", Example: "4.3"},
		{Name: "stock", Description: "Units in stock", Required: false, Type: "number", Example: "120"},
		{Name: "category", Description: "Category name", Required: false, Type: "string", Example: "electronics"},
		{Name: "brand", Description: "Brand name", Required: false, Type: "string", Example: "Logitech"},
		{Name: "thumbnail", Description: "Thumbnail URL", Required: false, Type: "string", Example: "https://cdn.example.com/mouse.jpg"},
		{Name: "images", Description: "Image URLs separated by |", Required: false, Type: "string", Example: "https://a.jpg|https://b.jpg"},
		{Name: "externalId", Description: "External catalog ID (use with externalSource)", Required: false, Type: "string", Example: "42"},
		{Name: "externalSource", Description: "External catalog source", Required: false, Type: "string", Example: "dummyjson"},
	}
}
