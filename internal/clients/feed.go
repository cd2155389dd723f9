package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"catalog-service/internal/models"
)

// FeedItem is one product pulled from an external catalog feed, carrying
// the feed-side identity used for the upsert.
type FeedItem struct {
	ExternalID string
	Attrs      models.ProductAttrs
}

// FeedClient pulls an external product catalog
type FeedClient interface {
	// Source identifies the feed in (externalSource, externalID) pairs
	Source() string
	// Fetch returns the full feed contents
	Fetch(ctx context.Context) ([]FeedItem, error)
}

const defaultFeedTimeout = 30 * time.Second

func newFeedHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultFeedTimeout}
}

// fetchJSON issues a GET request and decodes the JSON body into out
func fetchJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode feed response: %w", err)
	}
	return nil
}
