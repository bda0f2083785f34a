package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

type seedRecord struct {
	id         string
	image      string
	discounted string
	rating     float64
	category   string
	brand      string
	color      string
	size       string
	age        time.Duration
}

var seedRecords = []seedRecord{
	{"1", "/1.jpg", "20.00", 4.5, "Moisturizers", "Cerave", "White", "150ml", 5 * day},
	{"2", "/2.jpg", "", 4.2, "Personal Care", "Dove", "Blue", "250ml", 3 * day},
	{"3", "/3.jpg", "22.50", 4.8, "Eye Care", "Olay", "Aqua", "30ml", 1 * day},
	{"4", "/4.jpg", "", 4.0, "Hair Care", "Loreal", "Green", "300ml", 7 * day},
	{"5", "/5.jpg", "18.75", 4.6, "Night Care", "Neutrogena", "Blue", "50g", 2 * day},
	{"6", "/6.jpg", "", 4.1, "Personal Care", "Nivea", "Aqua", "100g", 10 * day},
	{"7", "/1.jpg", "", 4.7, "Seller Picks", "The Body Shop", "Black", "50ml", 4 * day},
	{"8", "/3.jpg", "21.25", 4.3, "Sun Care", "Skinfood", "Green", "200ml", 6 * day},
	{"9", "/5.jpg", "", 4.4, "Masks", "Neogen", "Neogen", "100g", 8 * day},
	{"10", "/2.jpg", "", 4.2, "Hair Care", "Loreal", "White", "250ml", 12 * time.Hour},
	{"11", "/4.jpg", "17.50", 4.5, "Personal Care", "Dove", "Pink", "200g", 36 * time.Hour},
	{"12", "/1.jpg", "", 4.0, "Personal Care", "Nivea", "Blue", "500ml", 9 * day},
	{"13", "/2.jpg", "", 4.4, "Seller Picks", "The Body Shop", "Black", "120ml", 11 * day},
	{"14", "/2.jpg", "12.50", 4.9, "Sun Care", "Neutrogena", "Red", "100ml", 30 * time.Minute},
	{"15", "/6.jpg", "", 4.3, "Hair Care", "Loreal", "Loreal", "150ml", 12 * day},
	{"16", "/3.jpg", "", 4.8, "Personal Care", "Cerave", "White", "300ml", day + day/5},
	{"17", "/2.jpg", "", 4.0, "Personal Care", "Nivea", "Black", "2 Pack", 15 * day},
	{"18", "/5.jpg", "20.00", 4.6, "On Sale", "Olay", "Red", "150g", 2 * time.Hour},
}

// SeedProducts returns the built-in mock dataset with creation times relative to now.
func SeedProducts(now time.Time) []Product {
	original := decimal.NewFromInt(25)
	products := make([]Product, 0, len(seedRecords))
	for _, r := range seedRecords {
		p := Product{
			ID:            r.id,
			Title:         "Nivea Soft Jar Moisturising Cream",
			Image:         r.image,
			OriginalPrice: original,
			Rating:        r.rating,
			Category:      r.category,
			Brand:         r.brand,
			Color:         r.color,
			Size:          r.size,
			CreatedAt:     now.Add(-r.age),
		}
		if r.discounted != "" {
			d := decimal.RequireFromString(r.discounted)
			p.DiscountedPrice = &d
		}
		products = append(products, p)
	}
	return products
}
