// Package urlstate owns the storefront's query-string contract: parsing the
// filter, sort and page parameters with their fallbacks, and serializing
// state changes back into canonical URLs.
//
// Canonical means defaults are never written: no sortBy=latest, no page=1,
// no empty facet sets, no price bound equal to its default.
package urlstate

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/example/shopspot/internal/catalog"
	"github.com/shopspring/decimal"
)

const (
	ParamCategory = "category"
	ParamBrand    = "brand"
	ParamColor    = "color"
	ParamSize     = "size"
	ParamMinPrice = "minPrice"
	ParamMaxPrice = "maxPrice"
	ParamPage     = "page"
	ParamSortBy   = "sortBy"
)

// FacetParams lists the multi-select parameters in sidebar order.
var FacetParams = []string{ParamCategory, ParamBrand, ParamColor, ParamSize}

// Selection is the set of chosen values per facet, in selection order.
type Selection struct {
	Categories []string `json:"categories,omitempty"`
	Brands     []string `json:"brands,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	Sizes      []string `json:"sizes,omitempty"`
}

// PriceRange is an inclusive [Min, Max] price interval.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// FullRange is the default range [0, ceiling].
func FullRange(ceiling decimal.Decimal) PriceRange {
	return PriceRange{Min: decimal.Zero, Max: ceiling}
}

func (r PriceRange) Equal(o PriceRange) bool {
	return r.Min.Equal(o.Min) && r.Max.Equal(o.Max)
}

// Params is the parsed form of a storefront URL.
type Params struct {
	Selection Selection
	// Price is the effective range shown on the slider, defaults applied.
	Price PriceRange
	// MinPrice and MaxPrice are the bounds present in the URL, nil when absent or malformed.
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Page     int
	SortBy   catalog.SortOption
}

// Parse reads storefront parameters. It never fails: malformed page falls
// back to 1, malformed price bounds to 0 and ceiling, unknown sorts to latest.
func Parse(v url.Values, ceiling decimal.Decimal) Params {
	p := Params{
		Selection: Selection{
			Categories: SplitSet(v.Get(ParamCategory)),
			Brands:     SplitSet(v.Get(ParamBrand)),
			Colors:     SplitSet(v.Get(ParamColor)),
			Sizes:      SplitSet(v.Get(ParamSize)),
		},
		Price:  FullRange(ceiling),
		Page:   ParsePage(v.Get(ParamPage)),
		SortBy: catalog.ParseSort(v.Get(ParamSortBy)),
	}

	if lo, ok := parsePrice(v.Get(ParamMinPrice), ceiling); ok {
		p.MinPrice = &lo
		p.Price.Min = lo
	}
	if hi, ok := parsePrice(v.Get(ParamMaxPrice), ceiling); ok {
		p.MaxPrice = &hi
		p.Price.Max = hi
	}
	return p
}

// Filters converts the URL selection into an engine filter.
func (p Params) Filters() catalog.Filters {
	return catalog.Filters{
		Categories: p.Selection.Categories,
		Brands:     p.Selection.Brands,
		Colors:     p.Selection.Colors,
		Sizes:      p.Selection.Sizes,
		MinPrice:   p.MinPrice,
		MaxPrice:   p.MaxPrice,
	}
}

// Limit is the cumulative window size for the requested page. It saturates
// at math.MaxInt instead of overflowing.
func (p Params) Limit(itemsPerPage int) int {
	if itemsPerPage > 0 && p.Page > math.MaxInt/itemsPerPage {
		return math.MaxInt
	}
	return p.Page * itemsPerPage
}

// ParsePage returns a positive page number, or 1 for anything else.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func parsePrice(raw string, ceiling decimal.Decimal) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if d.IsNegative() {
		d = decimal.Zero
	}
	if d.GreaterThan(ceiling) {
		d = ceiling
	}
	return d, true
}

// SplitSet decodes a comma-joined set. Empty items are dropped.
func SplitSet(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Toggle removes value from set if present, otherwise appends it. The input is not modified.
func Toggle(set []string, value string) []string {
	out := make([]string, 0, len(set)+1)
	found := false
	for _, s := range set {
		if s == value {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, value)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Contains reports whether value is selected.
func Contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

// Facet returns the selection for a facet parameter name.
func (s Selection) Facet(param string) []string {
	switch param {
	case ParamCategory:
		return s.Categories
	case ParamBrand:
		return s.Brands
	case ParamColor:
		return s.Colors
	case ParamSize:
		return s.Sizes
	}
	return nil
}

// WithFacet returns a copy of s with the facet's selection replaced.
func (s Selection) WithFacet(param string, values []string) Selection {
	switch param {
	case ParamCategory:
		s.Categories = values
	case ParamBrand:
		s.Brands = values
	case ParamColor:
		s.Colors = values
	case ParamSize:
		s.Sizes = values
	}
	return s
}

func (s Selection) Clone() Selection {
	return Selection{
		Categories: cloneSet(s.Categories),
		Brands:     cloneSet(s.Brands),
		Colors:     cloneSet(s.Colors),
		Sizes:      cloneSet(s.Sizes),
	}
}

func (s Selection) IsEmpty() bool {
	return len(s.Categories) == 0 && len(s.Brands) == 0 && len(s.Colors) == 0 && len(s.Sizes) == 0
}

func cloneSet(set []string) []string {
	if len(set) == 0 {
		return nil
	}
	return append([]string(nil), set...)
}
