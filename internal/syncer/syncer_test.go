package syncer

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/catalog"
	"catalog-service/internal/catalog/catalogtest"
	"catalog-service/internal/clients"
	"catalog-service/internal/models"
)

// stubFeed serves canned feed items
type stubFeed struct {
	source string
	items  []clients.FeedItem
	err    error
}

var _ clients.FeedClient = (*stubFeed)(nil)

func (f *stubFeed) Source() string { return f.source }

func (f *stubFeed) Fetch(ctx context.Context) ([]clients.FeedItem, error) {
	return f.items, f.err
}

func feedItem(externalID, title, price string) clients.FeedItem {
	return clients.FeedItem{
		ExternalID: externalID,
		Attrs: models.ProductAttrs{
			Title:    title,
			Price:    decimal.RequireFromString(price),
			Category: "test",
		},
	}
}

func newTestSyncer(store *catalogtest.MemStore, feeds ...clients.FeedClient) *Syncer {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewSyncer(catalog.NewService(store, logger), nil, logger, feeds...)
}

func TestSyncer_UnknownSource(t *testing.T) {
	s := newTestSyncer(catalogtest.NewMemStore(), &stubFeed{source: "dummyjson"})

	_, err := s.Sync(context.Background(), "etsy")

	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrValidationFailed)
}

func TestSyncer_CreatesThenUpdates(t *testing.T) {
	store := catalogtest.NewMemStore()
	feed := &stubFeed{source: "dummyjson", items: []clients.FeedItem{
		feedItem("1", "iPhone 9", "549"),
		feedItem("2", "Laptop", "1099"),
	}}
	s := newTestSyncer(store, feed)

	first, err := s.Sync(context.Background(), "dummyjson")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Fetched)
	assert.Equal(t, 2, first.Created)
	assert.Equal(t, 0, first.Updated)

	// Second run with one changed item updates in place.
	feed.items[0] = feedItem("1", "iPhone 9 Pro", "649")
	second, err := s.Sync(context.Background(), "dummyjson")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Updated)
	assert.Equal(t, 2, store.Count())
}

func TestSyncer_InvalidItemsAreSkippedNotFatal(t *testing.T) {
	store := catalogtest.NewMemStore()
	feed := &stubFeed{source: "dummyjson", items: []clients.FeedItem{
		feedItem("1", "Valid Product", "10"),
		feedItem("2", "", "10"), // no title
		feedItem("3", "Negative", "-5"),
	}}
	s := newTestSyncer(store, feed)

	result, err := s.Sync(context.Background(), "dummyjson")

	require.NoError(t, err)
	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 1, store.Count())
}

func TestSyncer_FeedFailurePropagates(t *testing.T) {
	feed := &stubFeed{source: "fakestore", err: fmt.Errorf("connection refused")}
	s := newTestSyncer(catalogtest.NewMemStore(), feed)

	_, err := s.Sync(context.Background(), "fakestore")

	assert.Error(t, err)
}

func TestSyncer_Sources(t *testing.T) {
	s := newTestSyncer(catalogtest.NewMemStore(),
		&stubFeed{source: "fakestore"},
		&stubFeed{source: "dummyjson"},
	)

	assert.Equal(t, []string{"dummyjson", "fakestore"}, s.Sources())
}
