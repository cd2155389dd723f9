package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/catalog"
	"catalog-service/internal/catalog/catalogtest"
	"catalog-service/internal/models"
)

type importEnv struct {
	store   *catalogtest.MemStore
	service *catalog.Service
	router  *gin.Engine
}

func newImportEnv(t *testing.T) *importEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	store := catalogtest.NewMemStore()
	service := catalog.NewService(store, logger)
	handler := NewImportHandler(service, logger)

	router := gin.New()
	router.POST("/api/v1/products/import", handler.ImportProducts)
	router.GET("/api/v1/products/import/template", handler.GetImportTemplate)

	return &importEnv{store: store, service: service, router: router}
}

func (e *importEnv) upload(t *testing.T, filename, content string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeImport(t *testing.T, w *httptest.ResponseRecorder) models.ImportResult {
	t.Helper()
	var result models.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

func TestImportProducts_CSVCreatesRows(t *testing.T) {
	env := newImportEnv(t)
	csvBody := "title,price,category,brand,stock\n" +
		"Wireless Mouse,29.99,electronics,Logitech,10\n" +
		"Desk Lamp,19.99,home,,3\n"

	w := env.upload(t, "products.csv", csvBody, nil)

	require.Equal(t, http.StatusOK, w.Code)
	result := decodeImport(t, w)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.CreatedCount)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, env.store.Count())
}

func TestImportProducts_InvalidRowsAreReportedPerRow(t *testing.T) {
	env := newImportEnv(t)
	csvBody := "title,price\n" +
		"Good Product,10\n" +
		",15\n" +
		"Bad Price,notanumber\n"

	w := env.upload(t, "products.csv", csvBody, nil)

	require.Equal(t, http.StatusOK, w.Code)
	result := decodeImport(t, w)
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.CreatedCount)
	assert.Equal(t, 2, result.FailedCount)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, "title", result.Errors[0].Column)
	assert.Equal(t, 4, result.Errors[1].Row)
	assert.Equal(t, "price", result.Errors[1].Column)
}

func TestImportProducts_ExternalPairUpserts(t *testing.T) {
	env := newImportEnv(t)
	csvBody := "title,price,externalId,externalSource\n" +
		"iPhone 9,549,1,dummyjson\n"

	w := env.upload(t, "products.csv", csvBody, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeImport(t, w).CreatedCount)

	// Re-importing the same pair updates instead of duplicating.
	csvBody = "title,price,externalId,externalSource\n" +
		"iPhone 9 Pro,649,1,dummyjson\n"
	w = env.upload(t, "products.csv", csvBody, nil)
	require.Equal(t, http.StatusOK, w.Code)
	result := decodeImport(t, w)
	assert.Equal(t, 0, result.CreatedCount)
	assert.Equal(t, 1, result.UpdatedCount)
	assert.Equal(t, 1, env.store.Count())

	product, err := env.service.Get(context.Background(), result.UpdatedIDs[0])
	require.NoError(t, err)
	assert.Equal(t, "iPhone 9 Pro", product.Title)
	assert.True(t, product.Price.Equal(decimal.NewFromInt(649)))
}

func TestImportProducts_SkipDuplicates(t *testing.T) {
	env := newImportEnv(t)
	csvBody := "title,price,externalId,externalSource\n" +
		"iPhone 9,549,1,dummyjson\n"

	w := env.upload(t, "products.csv", csvBody, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.upload(t, "products.csv", csvBody, map[string]string{"skipDuplicates": "true"})
	require.Equal(t, http.StatusOK, w.Code)
	result := decodeImport(t, w)
	assert.Equal(t, 0, result.UpdatedCount)
	assert.Equal(t, 1, result.SkippedCount)
}

func TestImportProducts_ValidateOnlyWritesNothing(t *testing.T) {
	env := newImportEnv(t)
	csvBody := "title,price\n" +
		"Mouse,10\n" +
		"Negative,-5\n"

	w := env.upload(t, "products.csv", csvBody, map[string]string{"validateOnly": "true"})

	require.Equal(t, http.StatusOK, w.Code)
	result := decodeImport(t, w)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Zero(t, env.store.Count())
}

func TestImportProducts_RejectsUnknownExtension(t *testing.T) {
	env := newImportEnv(t)

	w := env.upload(t, "products.txt", "whatever", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportProducts_RejectsEmptyFile(t *testing.T) {
	env := newImportEnv(t)

	w := env.upload(t, "products.csv", "title,price\n", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetImportTemplate(t *testing.T) {
	env := newImportEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/import/template", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}
