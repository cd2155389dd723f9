package subscribers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/events"
	"catalog-service/internal/syncer"
)

// SyncSubscriber listens for sync requests on NATS and triggers feed
// syncs, so other services can ask the catalog to refresh without going
// through the HTTP API.
type SyncSubscriber struct {
	conn   *nats.Conn
	syncer *syncer.Syncer
	logger *logrus.Entry
	sub    *nats.Subscription
}

// NewSyncSubscriber creates a sync subscriber on an existing connection
func NewSyncSubscriber(conn *nats.Conn, feedSyncer *syncer.Syncer, logger *logrus.Logger) *SyncSubscriber {
	return &SyncSubscriber{
		conn:   conn,
		syncer: feedSyncer,
		logger: logger.WithField("component", "sync-subscriber"),
	}
}

// Start subscribes to sync requests. Requests for unknown sources are
// logged and dropped.
func (s *SyncSubscriber) Start() error {
	sub, err := s.conn.Subscribe(events.SubjectSyncRequested, func(msg *nats.Msg) {
		var req events.SyncRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			s.logger.WithError(err).Warn("Dropping malformed sync request")
			return
		}

		s.logger.WithField("source", req.Source).Info("Sync requested via NATS")

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		result, err := s.syncer.Sync(ctx, req.Source)
		if err != nil {
			s.logger.WithField("source", req.Source).WithError(err).Error("Requested sync failed")
			return
		}

		s.logger.WithFields(logrus.Fields{
			"source":  result.Source,
			"created": result.Created,
			"updated": result.Updated,
		}).Info("Requested sync finished")
	})
	if err != nil {
		return err
	}

	s.sub = sub
	s.logger.WithField("subject", events.SubjectSyncRequested).Info("Sync subscriber started")
	return nil
}

// Stop unsubscribes from sync requests
func (s *SyncSubscriber) Stop() {
	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil {
			s.logger.WithError(err).Warn("Failed to unsubscribe sync subscriber")
		}
	}
}
