package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"catalog-service/internal/models"
)

func makeProducts(n int) []models.Product {
	products := make([]models.Product, n)
	for i := range products {
		products[i] = testProduct(int64(i+1), fmt.Sprintf("Product %d", i+1))
	}
	return products
}

func TestNormalize_ClampsPageAndSize(t *testing.T) {
	tests := []struct {
		name     string
		in       PageRequest
		wantPage int
		wantSize int
	}{
		{name: "zero size clamps to 1", in: PageRequest{Page: 1, PageSize: 0}, wantPage: 1, wantSize: 1},
		{name: "negative size clamps to 1", in: PageRequest{Page: 1, PageSize: -5}, wantPage: 1, wantSize: 1},
		{name: "oversized clamps to max", in: PageRequest{Page: 1, PageSize: 1000}, wantPage: 1, wantSize: MaxPageSize},
		{name: "zero page clamps to 1", in: PageRequest{Page: 0, PageSize: 20}, wantPage: 1, wantSize: 20},
		{name: "in-range passes through", in: PageRequest{Page: 3, PageSize: 50}, wantPage: 3, wantSize: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantSize, got.PageSize)
		})
	}
}

func TestPaginate_SplitsTwentyFiveItemsAcrossThreePages(t *testing.T) {
	items := makeProducts(25)

	page1 := Paginate(items, PageRequest{Page: 1, PageSize: 12})
	assert.Len(t, page1.Items, 12)
	assert.Equal(t, int64(25), page1.TotalItems)
	assert.Equal(t, 3, page1.TotalPages)
	assert.True(t, page1.HasNext)
	assert.False(t, page1.HasPrevious)

	page2 := Paginate(items, PageRequest{Page: 2, PageSize: 12})
	assert.Len(t, page2.Items, 12)
	assert.True(t, page2.HasNext)
	assert.True(t, page2.HasPrevious)

	page3 := Paginate(items, PageRequest{Page: 3, PageSize: 12})
	assert.Len(t, page3.Items, 1)
	assert.False(t, page3.HasNext)
	assert.True(t, page3.HasPrevious)
}

func TestPaginate_PastTheEndKeepsMetadata(t *testing.T) {
	items := makeProducts(25)

	result := Paginate(items, PageRequest{Page: 4, PageSize: 12})

	assert.Empty(t, result.Items)
	assert.Equal(t, 4, result.Page)
	assert.Equal(t, int64(25), result.TotalItems)
	assert.Equal(t, 3, result.TotalPages)
	assert.False(t, result.HasNext)
	assert.True(t, result.HasPrevious)
}

func TestPaginate_EmptyListing(t *testing.T) {
	result := Paginate(nil, PageRequest{Page: 1, PageSize: 20})

	assert.Empty(t, result.Items)
	assert.Equal(t, int64(0), result.TotalItems)
	assert.Equal(t, 0, result.TotalPages)
	assert.False(t, result.HasNext)
	assert.False(t, result.HasPrevious)
	assert.Empty(t, result.PageNumbers)
}

func TestPaginate_PreservesItemOrder(t *testing.T) {
	items := makeProducts(5)

	result := Paginate(items, PageRequest{Page: 2, PageSize: 2})

	assert.Equal(t, int64(3), result.Items[0].ID)
	assert.Equal(t, int64(4), result.Items[1].ID)
}

func TestPageNumbers_Windowing(t *testing.T) {
	tests := []struct {
		totalPages int
		current    int
		want       []string
	}{
		{totalPages: 3, current: 1, want: []string{"1", "2", "3"}},
		{totalPages: 5, current: 5, want: []string{"1", "2", "3", "4", "5"}},
		{totalPages: 10, current: 5, want: []string{"1", "...", "4", "5", "6", "...", "10"}},
		{totalPages: 10, current: 1, want: []string{"1", "2", "...", "10"}},
		{totalPages: 10, current: 2, want: []string{"1", "2", "3", "...", "10"}},
		{totalPages: 10, current: 3, want: []string{"1", "2", "3", "4", "...", "10"}},
		{totalPages: 10, current: 4, want: []string{"1", "...", "3", "4", "5", "...", "10"}},
		{totalPages: 10, current: 9, want: []string{"1", "...", "8", "9", "10"}},
		{totalPages: 10, current: 10, want: []string{"1", "...", "9", "10"}},
		{totalPages: 6, current: 3, want: []string{"1", "2", "3", "4", "...", "6"}},
		{totalPages: 1, current: 1, want: []string{"1"}},
		{totalPages: 0, current: 1, want: []string{}},
		// Past-the-end current page still renders the edges.
		{totalPages: 10, current: 20, want: []string{"1", "...", "10"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("total=%d,current=%d", tt.totalPages, tt.current), func(t *testing.T) {
			assert.Equal(t, tt.want, PageNumbers(tt.totalPages, tt.current))
		})
	}
}
