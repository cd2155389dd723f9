package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// Event subjects published by the catalog service
const (
	SubjectProductCreated = "catalog.product.created"
	SubjectProductUpdated = "catalog.product.updated"
	SubjectProductDeleted = "catalog.product.deleted"
	SubjectProductSynced  = "catalog.product.synced"

	// SubjectSyncRequested triggers a feed sync when received
	SubjectSyncRequested = "catalog.sync.requested"
)

// ProductEvent is the payload published on product lifecycle changes
type ProductEvent struct {
	EventID    string    `json:"eventId"`
	EventType  string    `json:"eventType"`
	OccurredAt time.Time `json:"occurredAt"`
	ProductID  int64     `json:"productId"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Price      string    `json:"price"`
	Source     string    `json:"source,omitempty"`
}

// SyncRequest asks the service to pull one external feed
type SyncRequest struct {
	Source string `json:"source"`
}

// Publisher publishes catalog events to NATS. A nil Publisher is safe to
// call; every publish becomes a no-op so the service runs without a broker.
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewPublisher connects to NATS and returns a catalog events publisher
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("catalog-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		conn:   conn,
		logger: logger.WithField("component", "catalog-events"),
	}, nil
}

// Close drains and closes the NATS connection
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.logger.WithError(err).Warn("Failed to drain NATS connection")
	}
}

// Conn exposes the underlying connection for subscribers sharing it
func (p *Publisher) Conn() *nats.Conn {
	if p == nil {
		return nil
	}
	return p.conn
}

// PublishProductCreated publishes a product.created event
func (p *Publisher) PublishProductCreated(product *models.Product) {
	p.publish(SubjectProductCreated, p.buildEvent(SubjectProductCreated, product))
}

// PublishProductUpdated publishes a product.updated event
func (p *Publisher) PublishProductUpdated(product *models.Product) {
	p.publish(SubjectProductUpdated, p.buildEvent(SubjectProductUpdated, product))
}

// PublishProductDeleted publishes a product.deleted event
func (p *Publisher) PublishProductDeleted(productID int64) {
	event := ProductEvent{
		EventID:    uuid.New().String(),
		EventType:  SubjectProductDeleted,
		OccurredAt: time.Now().UTC(),
		ProductID:  productID,
	}
	p.publish(SubjectProductDeleted, event)
}

// PublishProductSynced publishes a product.synced event for a feed upsert
func (p *Publisher) PublishProductSynced(product *models.Product, source string) {
	event := p.buildEvent(SubjectProductSynced, product)
	event.Source = source
	p.publish(SubjectProductSynced, event)
}

func (p *Publisher) buildEvent(eventType string, product *models.Product) ProductEvent {
	return ProductEvent{
		EventID:    uuid.New().String(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		ProductID:  product.ID,
		Title:      product.Title,
		Category:   product.Category,
		Price:      product.Price.String(),
	}
}

// publish sends the event asynchronously so request handling never blocks
// on the broker
func (p *Publisher) publish(subject string, event ProductEvent) {
	if p == nil || p.conn == nil {
		return
	}

	go func() {
		data, err := json.Marshal(event)
		if err != nil {
			p.logger.WithError(err).Error("Failed to encode product event")
			return
		}

		if err := p.conn.Publish(subject, data); err != nil {
			p.logger.WithFields(logrus.Fields{
				"subject":   subject,
				"productId": event.ProductID,
			}).WithError(err).Error("Failed to publish product event")
			return
		}

		p.logger.WithFields(logrus.Fields{
			"subject":   subject,
			"productId": event.ProductID,
		}).Debug("Product event published")
	}()
}
