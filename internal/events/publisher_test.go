package events

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"catalog-service/internal/models"
)

func TestNilPublisherIsSafe(t *testing.T) {
	var p *Publisher

	product := &models.Product{ID: 1, Title: "Mouse", Price: decimal.NewFromInt(10)}

	assert.NotPanics(t, func() {
		p.PublishProductCreated(product)
		p.PublishProductUpdated(product)
		p.PublishProductDeleted(1)
		p.PublishProductSynced(product, "dummyjson")
		p.Close()
	})
	assert.Nil(t, p.Conn())
}
