package clients

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// SourceFakeStore is the external source tag for the Fake Store feed
const SourceFakeStore = "fakestore"

// FakeStoreClient pulls products from the Fake Store catalog API
type FakeStoreClient struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Entry
}

var _ FeedClient = (*FakeStoreClient)(nil)

// NewFakeStoreClient creates a Fake Store feed client
func NewFakeStoreClient(baseURL string, logger *logrus.Logger) *FakeStoreClient {
	return &FakeStoreClient{
		baseURL: baseURL,
		client:  newFeedHTTPClient(),
		logger:  logger.WithField("component", "fakestore-client"),
	}
}

// Source implements FeedClient
func (c *FakeStoreClient) Source() string {
	return SourceFakeStore
}

type fakeStoreProduct struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"rating"`
}

// Fetch implements FeedClient. The feed carries no brand, discount or
// stock figures; the rating count doubles as a stock approximation so
// synced products stay orderable.
func (c *FakeStoreClient) Fetch(ctx context.Context) ([]FeedItem, error) {
	url := c.baseURL + "/products"
	c.logger.WithField("url", url).Info("Fetching Fake Store feed")

	var payload []fakeStoreProduct
	if err := fetchJSON(ctx, c.client, url, &payload); err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(payload))
	for _, p := range payload {
		item := FeedItem{
			ExternalID: strconv.FormatInt(p.ID, 10),
		}
		item.Attrs.Title = p.Title
		item.Attrs.Description = p.Description
		item.Attrs.Price = p.Price
		item.Attrs.DiscountPercentage = decimal.Zero
		item.Attrs.Rating = p.Rating.Rate
		item.Attrs.Stock = p.Rating.Count
		item.Attrs.Category = p.Category
		item.Attrs.Thumbnail = p.Image
		if p.Image != "" {
			item.Attrs.Images = []string{p.Image}
		}
		items = append(items, item)
	}

	c.logger.WithField("count", len(items)).Info("Fake Store feed fetched")
	return items, nil
}
