package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"catalog-service/internal/catalog"
	"catalog-service/internal/metrics"
	"catalog-service/internal/models"
)

// ImportHandler handles bulk product import from CSV and XLSX files
type ImportHandler struct {
	service *catalog.Service
	logger  *logrus.Entry
}

// NewImportHandler creates a new import handler
func NewImportHandler(service *catalog.Service, logger *logrus.Logger) *ImportHandler {
	return &ImportHandler{
		service: service,
		logger:  logger.WithField("component", "import-handler"),
	}
}

// GetImportTemplate serves an XLSX template for product import
// @Summary Download import template
// @Tags import
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200
// @Router /api/v1/products/import/template [get]
func (h *ImportHandler) GetImportTemplate(c *gin.Context) {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Products"
	f.SetSheetName("Sheet1", sheetName)

	columns := models.ProductImportColumns()
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col.Name)
		sample, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheetName, sample, col.Example)
	}
	f.SetColWidth(sheetName, "A", "L", 22)

	// Instructions sheet describing every column
	f.NewSheet("Instructions")
	f.SetCellValue("Instructions", "A1", "Column")
	f.SetCellValue("Instructions", "B1", "Description")
	f.SetCellValue("Instructions", "C1", "Required")
	f.SetCellValue("Instructions", "D1", "Type")
	f.SetCellValue("Instructions", "E1", "Example")
	for i, col := range columns {
		row := i + 2
		f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), col.Name)
		f.SetCellValue("Instructions", fmt.Sprintf("B%d", row), col.Description)
		required := "Optional"
		if col.Required {
			required = "Required"
		}
		f.SetCellValue("Instructions", fmt.Sprintf("C%d", row), required)
		f.SetCellValue("Instructions", fmt.Sprintf("D%d", row), col.Type)
		f.SetCellValue("Instructions", fmt.Sprintf("E%d", row), col.Example)
	}
	f.SetColWidth("Instructions", "A", "A", 22)
	f.SetColWidth("Instructions", "B", "B", 55)
	f.SetColWidth("Instructions", "C", "E", 15)

	sheetIdx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIdx)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=products_import_template.xlsx")
	f.Write(c.Writer)
}

// ImportProducts imports products from an uploaded CSV or XLSX file.
// Rows carrying an (externalSource, externalId) pair are upserted by that
// pair; rows without one always create a new product.
// @Summary Import products
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or XLSX file"
// @Param skipDuplicates formData boolean false "Skip rows whose external pair already exists"
// @Param updateExisting formData boolean false "Update rows whose external pair already exists"
// @Param validateOnly formData boolean false "Validate without writing"
// @Success 200 {object} models.ImportResult
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/products/import [post]
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	startTime := time.Now()

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_REQUIRED",
				Message: "Please upload a CSV or Excel file",
			},
		})
		return
	}
	defer file.Close()

	skipDuplicates := c.DefaultPostForm("skipDuplicates", "false") == "true"
	updateExisting := c.DefaultPostForm("updateExisting", "true") == "true"
	validateOnly := c.DefaultPostForm("validateOnly", "false") == "true"

	var rows []map[string]string
	var parseErr error
	switch {
	case strings.HasSuffix(strings.ToLower(header.Filename), ".csv"):
		rows, parseErr = h.parseCSV(file)
	case strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx"):
		rows, parseErr = h.parseXLSX(file)
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_FORMAT",
				Message: "Only CSV and XLSX files are supported",
			},
		})
		return
	}
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "PARSE_ERROR",
				Message: parseErr.Error(),
			},
		})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "EMPTY_FILE",
				Message: "The file contains no data rows",
			},
		})
		return
	}

	result := h.processRows(c, rows, skipDuplicates, updateExisting, validateOnly)
	result.BatchID = uuid.New().String()
	result.ProcessingMs = time.Since(startTime).Milliseconds()

	h.logger.WithFields(logrus.Fields{
		"batchId": result.BatchID,
		"total":   result.TotalRows,
		"created": result.CreatedCount,
		"updated": result.UpdatedCount,
		"failed":  result.FailedCount,
		"skipped": result.SkippedCount,
	}).Info("Product import finished")

	c.JSON(http.StatusOK, result)
}

func (h *ImportHandler) processRows(c *gin.Context, rows []map[string]string, skipDuplicates, updateExisting, validateOnly bool) *models.ImportResult {
	ctx := c.Request.Context()
	result := &models.ImportResult{
		TotalRows:  len(rows),
		Errors:     make([]models.ImportRowError, 0),
		CreatedIDs: make([]int64, 0),
		UpdatedIDs: make([]int64, 0),
	}

	for _, row := range rows {
		rowNum, _ := strconv.Atoi(row["_row"])

		attrs, rowErr := parseRowAttrs(row)
		if rowErr != nil {
			result.FailedCount++
			rowErr.Row = rowNum
			result.Errors = append(result.Errors, *rowErr)
			metrics.ImportRows.WithLabelValues("failed").Inc()
			continue
		}

		externalID := strings.TrimSpace(row["externalid"])
		externalSource := strings.TrimSpace(row["externalsource"])
		hasPair := externalID != "" && externalSource != ""

		if validateOnly {
			if err := validateAttrs(attrs); err != nil {
				result.FailedCount++
				result.Errors = append(result.Errors, rowError(rowNum, err))
			} else {
				result.SuccessCount++
			}
			continue
		}

		if hasPair {
			_, lookupErr := h.service.LookupByExternalPair(ctx, externalSource, externalID)
			switch {
			case lookupErr == nil && skipDuplicates:
				result.SkippedCount++
				metrics.ImportRows.WithLabelValues("skipped").Inc()
				continue
			case lookupErr == nil && !updateExisting:
				result.SkippedCount++
				metrics.ImportRows.WithLabelValues("skipped").Inc()
				continue
			case lookupErr != nil && !errors.Is(lookupErr, catalog.ErrNotFound):
				result.FailedCount++
				result.Errors = append(result.Errors, models.ImportRowError{
					Row: rowNum, Code: "DB_ERROR", Message: lookupErr.Error(),
				})
				metrics.ImportRows.WithLabelValues("failed").Inc()
				continue
			}

			product, created, err := h.service.UpsertByExternalID(ctx, externalSource, externalID, attrs)
			if err != nil {
				result.FailedCount++
				result.Errors = append(result.Errors, rowError(rowNum, err))
				metrics.ImportRows.WithLabelValues("failed").Inc()
				continue
			}
			if created {
				result.CreatedCount++
				result.CreatedIDs = append(result.CreatedIDs, product.ID)
				metrics.ImportRows.WithLabelValues("created").Inc()
			} else {
				result.UpdatedCount++
				result.UpdatedIDs = append(result.UpdatedIDs, product.ID)
				metrics.ImportRows.WithLabelValues("updated").Inc()
			}
			continue
		}

		product, err := h.service.Create(ctx, createRequestFromAttrs(attrs))
		if err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, rowError(rowNum, err))
			metrics.ImportRows.WithLabelValues("failed").Inc()
			continue
		}
		result.CreatedCount++
		result.CreatedIDs = append(result.CreatedIDs, product.ID)
		metrics.ImportRows.WithLabelValues("created").Inc()
	}

	if !validateOnly {
		result.SuccessCount = result.CreatedCount + result.UpdatedCount
	}
	result.Success = result.FailedCount == 0

	return result
}

// parseRowAttrs converts one normalized row into product attributes
func parseRowAttrs(row map[string]string) (models.ProductAttrs, *models.ImportRowError) {
	var attrs models.ProductAttrs

	attrs.Title = strings.TrimSpace(row["title"])
	if attrs.Title == "" {
		return attrs, &models.ImportRowError{Column: "title", Code: "REQUIRED", Message: "title is required"}
	}
	attrs.Description = row["description"]
	attrs.Category = row["category"]
	attrs.Thumbnail = row["thumbnail"]

	rawPrice := strings.TrimSpace(row["price"])
	if rawPrice == "" {
		return attrs, &models.ImportRowError{Column: "price", Code: "REQUIRED", Message: "price is required"}
	}
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return attrs, &models.ImportRowError{Column: "price", Code: "INVALID_NUMBER", Message: "price must be a decimal number"}
	}
	attrs.Price = price

	if raw := strings.TrimSpace(row["discountpercentage"]); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return attrs, &models.ImportRowError{Column: "discountPercentage", Code: "INVALID_NUMBER", Message: "discountPercentage must be a decimal number"}
		}
		attrs.DiscountPercentage = d
	}
	if raw := strings.TrimSpace(row["rating"]); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return attrs, &models.ImportRowError{Column: "rating", Code: "INVALID_NUMBER", Message: "rating must be a number"}
		}
		attrs.Rating = f
	}
	if raw := strings.TrimSpace(row["stock"]); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return attrs, &models.ImportRowError{Column: "stock", Code: "INVALID_NUMBER", Message: "stock must be an integer"}
		}
		attrs.Stock = n
	}
	if brand := strings.TrimSpace(row["brand"]); brand != "" {
		attrs.Brand = &brand
	}
	if raw := strings.TrimSpace(row["images"]); raw != "" {
		for _, img := range strings.Split(raw, "|") {
			if img = strings.TrimSpace(img); img != "" {
				attrs.Images = append(attrs.Images, img)
			}
		}
	}

	return attrs, nil
}

func createRequestFromAttrs(attrs models.ProductAttrs) models.CreateProductRequest {
	return models.CreateProductRequest{
		Title:              attrs.Title,
		Description:        attrs.Description,
		Price:              attrs.Price,
		DiscountPercentage: &attrs.DiscountPercentage,
		Rating:             &attrs.Rating,
		Stock:              &attrs.Stock,
		Category:           attrs.Category,
		Brand:              attrs.Brand,
		Thumbnail:          attrs.Thumbnail,
		Images:             attrs.Images,
	}
}

func validateAttrs(attrs models.ProductAttrs) error {
	switch {
	case attrs.Price.IsNegative():
		return &catalog.ValidationError{Field: "price", Message: "must not be negative"}
	case attrs.DiscountPercentage.IsNegative() || attrs.DiscountPercentage.Cmp(decimal.NewFromInt(100)) > 0:
		return &catalog.ValidationError{Field: "discountPercentage", Message: "must be between 0 and 100"}
	case attrs.Rating < 0 || attrs.Rating > 5:
		return &catalog.ValidationError{Field: "rating", Message: "must be between 0 and 5"}
	case attrs.Stock < 0:
		return &catalog.ValidationError{Field: "stock", Message: "must not be negative"}
	}
	return nil
}

func rowError(rowNum int, err error) models.ImportRowError {
	e := models.ImportRowError{Row: rowNum, Code: "VALIDATION_FAILED", Message: err.Error()}
	var vErr *catalog.ValidationError
	if errors.As(err, &vErr) {
		e.Column = vErr.Field
		e.Message = vErr.Message
	}
	return e
}

// parseCSV reads the upload into normalized rows. Header names are
// lowercased so column matching is case-insensitive; the original line
// number travels with each row under "_row".
func (h *ImportHandler) parseCSV(file io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []map[string]string
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", line+1, err)
		}
		line++

		row := map[string]string{"_row": strconv.Itoa(line)}
		for i, value := range record {
			if i < len(header) {
				row[header[i]] = strings.TrimSpace(value)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseXLSX reads the first sheet of the upload into normalized rows
func (h *ImportHandler) parseXLSX(file io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read XLSX rows: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}

	var rows []map[string]string
	for n, record := range records[1:] {
		row := map[string]string{"_row": strconv.Itoa(n + 2)}
		empty := true
		for i, value := range record {
			if i < len(header) {
				value = strings.TrimSpace(value)
				row[header[i]] = value
				if value != "" {
					empty = false
				}
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
