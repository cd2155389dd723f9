package clients

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// SourceDummyJSON is the external source tag for the DummyJSON feed
const SourceDummyJSON = "dummyjson"

// DummyJSONClient pulls products from the DummyJSON catalog API
type DummyJSONClient struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Entry
}

var _ FeedClient = (*DummyJSONClient)(nil)

// NewDummyJSONClient creates a DummyJSON feed client
func NewDummyJSONClient(baseURL string, logger *logrus.Logger) *DummyJSONClient {
	return &DummyJSONClient{
		baseURL: baseURL,
		client:  newFeedHTTPClient(),
		logger:  logger.WithField("component", "dummyjson-client"),
	}
}

// Source implements FeedClient
func (c *DummyJSONClient) Source() string {
	return SourceDummyJSON
}

type dummyJSONProduct struct {
	ID                 int64           `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	Rating             float64         `json:"rating"`
	Stock              int             `json:"stock"`
	Category           string          `json:"category"`
	Brand              string          `json:"brand"`
	Thumbnail          string          `json:"thumbnail"`
	Images             []string        `json:"images"`
}

type dummyJSONResponse struct {
	Products []dummyJSONProduct `json:"products"`
	Total    int                `json:"total"`
}

// Fetch implements FeedClient. The feed is requested with limit=0, which
// DummyJSON treats as "everything".
func (c *DummyJSONClient) Fetch(ctx context.Context) ([]FeedItem, error) {
	url := c.baseURL + "/products?limit=0"
	c.logger.WithField("url", url).Info("Fetching DummyJSON feed")

	var payload dummyJSONResponse
	if err := fetchJSON(ctx, c.client, url, &payload); err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(payload.Products))
	for _, p := range payload.Products {
		item := FeedItem{
			ExternalID: strconv.FormatInt(p.ID, 10),
		}
		item.Attrs.Title = p.Title
		item.Attrs.Description = p.Description
		item.Attrs.Price = p.Price
		item.Attrs.DiscountPercentage = p.DiscountPercentage
		item.Attrs.Rating = p.Rating
		item.Attrs.Stock = p.Stock
		item.Attrs.Category = p.Category
		if p.Brand != "" {
			brand := p.Brand
			item.Attrs.Brand = &brand
		}
		item.Attrs.Thumbnail = p.Thumbnail
		item.Attrs.Images = p.Images
		items = append(items, item)
	}

	c.logger.WithField("count", len(items)).Info("DummyJSON feed fetched")
	return items, nil
}
