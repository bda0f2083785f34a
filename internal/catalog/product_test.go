package catalog

import (
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProduct_DisplayPriceAndDiscount(t *testing.T) {
	discounted := decimal.RequireFromString("17.50")
	p := Product{OriginalPrice: decimal.NewFromInt(25), DiscountedPrice: &discounted}

	assert.True(t, p.OnSale())
	assert.True(t, p.DisplayPrice().Equal(discounted))
	assert.Equal(t, 30, p.DiscountPercent())
}

func TestProduct_NoDiscount(t *testing.T) {
	p := Product{OriginalPrice: decimal.NewFromInt(25)}

	assert.False(t, p.OnSale())
	assert.True(t, p.DisplayPrice().Equal(decimal.NewFromInt(25)))
	assert.Equal(t, 0, p.DiscountPercent())
}

func TestProduct_DiscountedAboveOriginalIsTrusted(t *testing.T) {
	discounted := decimal.NewFromInt(30)
	p := Product{OriginalPrice: decimal.NewFromInt(25), DiscountedPrice: &discounted}

	assert.True(t, p.DisplayPrice().Equal(discounted))
	assert.Equal(t, -20, p.DiscountPercent())
}

func TestProduct_Stars(t *testing.T) {
	full, half, empty := Product{Rating: 4.5}.Stars()
	assert.Equal(t, []int{4, 1, 0}, []int{full, half, empty})

	full, half, empty = Product{Rating: 4.0}.Stars()
	assert.Equal(t, []int{4, 0, 1}, []int{full, half, empty})
}

func TestDistinctSizes_SortedAndCapped(t *testing.T) {
	sizes := distinctSizes(SeedProducts(testNow), DefaultSizeLimit)

	assert.LessOrEqual(t, len(sizes), DefaultSizeLimit)
	assert.True(t, sort.StringsAreSorted(sizes))
}

func TestDistinctSizes_FewerThanLimit(t *testing.T) {
	products := []Product{{Size: "b"}, {Size: "a"}, {Size: "b"}}

	assert.Equal(t, []string{"a", "b"}, distinctSizes(products, DefaultSizeLimit))
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortOldest, ParseSort("oldest"))
	assert.Equal(t, SortLatest, ParseSort("latest"))
	assert.Equal(t, SortLatest, ParseSort(""))
	assert.Equal(t, SortLatest, ParseSort("OLDEST"))
}
