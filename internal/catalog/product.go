package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidRequest  = errors.New("invalid catalog request")
)

// Product is an immutable catalog record.
type Product struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Image           string           `json:"image"`
	OriginalPrice   decimal.Decimal  `json:"original_price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	Rating          float64          `json:"rating"`
	Category        string           `json:"category"`
	Brand           string           `json:"brand"`
	Color           string           `json:"color"`
	Size            string           `json:"size"`
	CreatedAt       time.Time        `json:"created_at"`
}

// OnSale reports whether the product carries a discounted price.
func (p Product) OnSale() bool {
	return p.DiscountedPrice != nil
}

// DisplayPrice is the price a shopper pays: the discounted price when present.
func (p Product) DisplayPrice() decimal.Decimal {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.OriginalPrice
}

// DiscountPercent returns the rounded discount over the original price, or 0.
func (p Product) DiscountPercent() int {
	if p.DiscountedPrice == nil || !p.OriginalPrice.IsPositive() {
		return 0
	}
	off := p.OriginalPrice.Sub(*p.DiscountedPrice).Div(p.OriginalPrice).Mul(decimal.NewFromInt(100))
	return int(off.Round(0).IntPart())
}

// Stars splits the rating into full, half and empty stars out of five.
func (p Product) Stars() (full, half, empty int) {
	full = int(p.Rating)
	if p.Rating != float64(full) {
		half = 1
	}
	empty = 5 - full - half
	if empty < 0 {
		empty = 0
	}
	return full, half, empty
}

// EpochMillis is CreatedAt in milliseconds since the Unix epoch.
func (p Product) EpochMillis() int64 {
	return p.CreatedAt.UnixMilli()
}
