package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount string
		want     string
	}{
		{name: "no discount", price: "100.00", discount: "0", want: "100"},
		{name: "simple discount", price: "100.00", discount: "12.5", want: "87.5"},
		{name: "rounds to cents", price: "549", discount: "12.96", want: "477.85"},
		{name: "full discount", price: "25.00", discount: "100", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{
				Price:              decimal.RequireFromString(tt.price),
				DiscountPercentage: decimal.RequireFromString(tt.discount),
			}
			got := p.DiscountedPrice()
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestImageList_RoundTrip(t *testing.T) {
	list := ImageList{"https://a.jpg", "https://b.jpg"}

	value, err := list.Value()
	require.NoError(t, err)

	var decoded ImageList
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, list, decoded)

	// nil list stores as an empty JSON array
	var empty ImageList
	value, err = empty.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
}
