package urlstate

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/example/shopspot/internal/catalog"
	"github.com/shopspring/decimal"
)

// Clone deep-copies query values so callers can mutate the result freely.
func Clone(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// CommitFilters writes a filter selection and price range over current.
// The page parameter is always removed so pagination restarts; sort and
// unrelated parameters are kept.
func CommitFilters(current url.Values, sel Selection, price PriceRange, ceiling decimal.Decimal) url.Values {
	v := Clone(current)
	v.Del(ParamPage)

	for _, param := range FacetParams {
		setOrDelete(v, param, sel.Facet(param))
	}

	if price.Min.IsPositive() {
		v.Set(ParamMinPrice, price.Min.String())
	} else {
		v.Del(ParamMinPrice)
	}
	if price.Max.LessThan(ceiling) {
		v.Set(ParamMaxPrice, price.Max.String())
	} else {
		v.Del(ParamMaxPrice)
	}
	return v
}

// WithSort switches ordering and restarts pagination. latest is the default and is never written.
func WithSort(current url.Values, sortBy catalog.SortOption) url.Values {
	v := Clone(current)
	v.Del(ParamPage)
	setSort(v, sortBy)
	return v
}

// WithPage requests a cumulative window of page pages, keeping filters and the given sort.
func WithPage(current url.Values, page int, sortBy catalog.SortOption) url.Values {
	v := Clone(current)
	if page > 1 {
		v.Set(ParamPage, strconv.Itoa(page))
	} else {
		v.Del(ParamPage)
	}
	setSort(v, sortBy)
	return v
}

// Href joins a path and query values. An empty query yields the bare path.
func Href(path string, v url.Values) string {
	if path == "" {
		path = "/"
	}
	if q := v.Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

// JoinSet encodes a set as a comma-joined value.
func JoinSet(set []string) string {
	return strings.Join(set, ",")
}

func setOrDelete(v url.Values, param string, set []string) {
	if len(set) > 0 {
		v.Set(param, JoinSet(set))
		return
	}
	v.Del(param)
}

func setSort(v url.Values, sortBy catalog.SortOption) {
	if catalog.ParseSort(string(sortBy)) == catalog.SortLatest {
		v.Del(ParamSortBy)
		return
	}
	v.Set(ParamSortBy, string(catalog.SortOldest))
}

// Crumb is one entry of the page breadcrumb trail.
type Crumb struct {
	Label string `json:"label"`
	Href  string `json:"href,omitempty"`
}

// Breadcrumbs builds Home > section, where section is the first selected
// category or "All Products".
func Breadcrumbs(path string, sel Selection) []Crumb {
	crumbs := []Crumb{{Label: "Home", Href: "/"}}
	if len(sel.Categories) == 0 {
		return append(crumbs, Crumb{Label: "All Products", Href: Href(path, nil)})
	}
	first := sel.Categories[0]
	return append(crumbs, Crumb{
		Label: first,
		Href:  Href(path, url.Values{ParamCategory: []string{first}}),
	})
}
