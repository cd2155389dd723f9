package syncer

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"catalog-service/internal/catalog"
	"catalog-service/internal/clients"
	"catalog-service/internal/events"
	"catalog-service/internal/metrics"
	"catalog-service/internal/models"
)

// Syncer pulls external catalog feeds and upserts their products by
// (source, externalID), so repeated syncs update in place.
type Syncer struct {
	service   *catalog.Service
	feeds     map[string]clients.FeedClient
	publisher *events.Publisher
	logger    *logrus.Entry
}

// NewSyncer creates a syncer over the given feeds
func NewSyncer(service *catalog.Service, publisher *events.Publisher, logger *logrus.Logger, feeds ...clients.FeedClient) *Syncer {
	bySource := make(map[string]clients.FeedClient, len(feeds))
	for _, feed := range feeds {
		bySource[feed.Source()] = feed
	}
	return &Syncer{
		service:   service,
		feeds:     bySource,
		publisher: publisher,
		logger:    logger.WithField("component", "feed-syncer"),
	}
}

// Sources lists the registered feed sources, sorted
func (s *Syncer) Sources() []string {
	sources := make([]string, 0, len(s.feeds))
	for source := range s.feeds {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}

// Sync fetches one feed and upserts every item. Items failing validation
// are counted and skipped; they never abort the rest of the feed.
func (s *Syncer) Sync(ctx context.Context, source string) (models.SyncResult, error) {
	feed, ok := s.feeds[source]
	if !ok {
		return models.SyncResult{}, &catalog.ValidationError{
			Field:   "source",
			Message: fmt.Sprintf("unknown feed source %q", source),
		}
	}

	items, err := feed.Fetch(ctx)
	if err != nil {
		s.logger.WithField("source", source).WithError(err).Error("Feed fetch failed")
		return models.SyncResult{}, fmt.Errorf("fetch %s feed: %w", source, err)
	}

	result := models.SyncResult{Source: source, Fetched: len(items)}
	for _, item := range items {
		product, created, err := s.service.UpsertByExternalID(ctx, source, item.ExternalID, item.Attrs)
		if err != nil {
			result.Failed++
			metrics.SyncedProducts.WithLabelValues(source, "failed").Inc()
			s.logger.WithFields(logrus.Fields{
				"source":     source,
				"externalId": item.ExternalID,
			}).WithError(err).Warn("Skipping feed item")
			continue
		}

		if created {
			result.Created++
			metrics.SyncedProducts.WithLabelValues(source, "created").Inc()
		} else {
			result.Updated++
			metrics.SyncedProducts.WithLabelValues(source, "updated").Inc()
		}
		s.publisher.PublishProductSynced(product, source)
	}

	s.logger.WithFields(logrus.Fields{
		"source":  source,
		"fetched": result.Fetched,
		"created": result.Created,
		"updated": result.Updated,
		"failed":  result.Failed,
	}).Info("Feed sync finished")
	return result, nil
}
