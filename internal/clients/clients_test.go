package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestDummyJSONClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "0", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"products": [
				{
					"id": 1,
					"title": "iPhone 9",
					"description": "An apple mobile",
					"price": 549,
					"discountPercentage": 12.96,
					"rating": 4.69,
					"stock": 94,
					"brand": "Apple",
					"category": "smartphones",
					"thumbnail": "https://cdn.example.com/1/thumb.jpg",
					"images": ["https://cdn.example.com/1/a.jpg", "https://cdn.example.com/1/b.jpg"]
				},
				{
					"id": 2,
					"title": "Generic Charger",
					"price": 9.99,
					"category": "accessories"
				}
			],
			"total": 2
		}`))
	}))
	defer server.Close()

	client := NewDummyJSONClient(server.URL, testLogger())
	items, err := client.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "1", items[0].ExternalID)
	assert.Equal(t, "iPhone 9", items[0].Attrs.Title)
	assert.True(t, items[0].Attrs.Price.Equal(decimal.NewFromInt(549)))
	assert.Equal(t, 94, items[0].Attrs.Stock)
	require.NotNil(t, items[0].Attrs.Brand)
	assert.Equal(t, "Apple", *items[0].Attrs.Brand)
	assert.Len(t, items[0].Attrs.Images, 2)

	// Missing brand stays nil, not an empty string.
	assert.Nil(t, items[1].Attrs.Brand)
}

func TestDummyJSONClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewDummyJSONClient(server.URL, testLogger())
	_, err := client.Fetch(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestFakeStoreClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"id": 7,
				"title": "Gold Ring",
				"price": 168,
				"description": "Satisfaction guaranteed",
				"category": "jewelery",
				"image": "https://cdn.example.com/ring.jpg",
				"rating": {"rate": 3.9, "count": 70}
			}
		]`))
	}))
	defer server.Close()

	client := NewFakeStoreClient(server.URL, testLogger())
	items, err := client.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "7", items[0].ExternalID)
	assert.Equal(t, "Gold Ring", items[0].Attrs.Title)
	assert.Equal(t, 3.9, items[0].Attrs.Rating)
	assert.Equal(t, 70, items[0].Attrs.Stock)
	assert.Equal(t, "https://cdn.example.com/ring.jpg", items[0].Attrs.Thumbnail)
	assert.Equal(t, []string{"https://cdn.example.com/ring.jpg"}, items[0].Attrs.Images)
	assert.Nil(t, items[0].Attrs.Brand)
}

func TestFakeStoreClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	}))
	defer server.Close()

	client := NewFakeStoreClient(server.URL, testLogger())
	_, err := client.Fetch(context.Background())

	assert.Error(t, err)
}
