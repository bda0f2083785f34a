package catalog

import (
	"sort"

	"github.com/shopspring/decimal"
)

const DefaultSizeLimit = 5

// FacetOptions is the sidebar's option catalog. It never depends on the current selection.
type FacetOptions struct {
	Categories []string        `json:"categories"`
	Brands     []string        `json:"brands"`
	Colors     []string        `json:"colors"`
	Sizes      []string        `json:"sizes"`
	MaxPrice   decimal.Decimal `json:"max_price"`
}

// FacetConfig fixes the enumerations and the price ceiling shown in the sidebar.
type FacetConfig struct {
	Categories []string
	Brands     []string
	Colors     []string
	SizeLimit  int
	MaxPrice   decimal.Decimal
}

func DefaultFacetConfig() FacetConfig {
	return FacetConfig{
		Categories: []string{
			"Sun Care",
			"Night Care",
			"Moisturizers",
			"Eye Care",
			"Masks",
			"Personal Care",
			"Hair Care",
			"On Sale",
			"Seller Picks",
		},
		Brands: []string{
			"The Body Shop",
			"Nivea",
			"Skinfood",
			"Neutrogena",
			"Cerave",
			"Olay",
			"Dove",
			"Neogen",
			"Loreal",
		},
		Colors: []string{
			"Red",
			"Pink",
			"White",
			"Black",
			"Aqua",
			"Green",
			"Blue",
			"Neogen",
			"Loreal",
		},
		SizeLimit: DefaultSizeLimit,
		MaxPrice:  decimal.NewFromInt(10000),
	}
}

// distinctSizes returns the sorted distinct sizes in the catalog, capped to limit.
func distinctSizes(products []Product, limit int) []string {
	seen := make(map[string]struct{}, len(products))
	sizes := make([]string, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.Size]; ok {
			continue
		}
		seen[p.Size] = struct{}{}
		sizes = append(sizes, p.Size)
	}
	sort.Strings(sizes)
	if limit >= 0 && len(sizes) > limit {
		sizes = sizes[:limit]
	}
	return sizes
}

func (f FacetOptions) clone() FacetOptions {
	return FacetOptions{
		Categories: append([]string(nil), f.Categories...),
		Brands:     append([]string(nil), f.Brands...),
		Colors:     append([]string(nil), f.Colors...),
		Sizes:      append([]string(nil), f.Sizes...),
		MaxPrice:   f.MaxPrice,
	}
}
