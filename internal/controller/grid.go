package controller

import (
	"math"
	"net/url"
	"sync"

	"github.com/example/shopspot/internal/catalog"
	"github.com/example/shopspot/internal/urlstate"
)

// DefaultItemsPerPage is the load-more window step.
const DefaultItemsPerPage = 18

// InferHasMore guesses whether another page exists from the shape of the
// current window: it must be full and a whole multiple of the page size.
// A catalog that is an exact multiple of itemsPerPage reports true once
// more than it should; the next load then returns the same window.
func InferHasMore(count, page, itemsPerPage int) bool {
	if itemsPerPage <= 0 || page > math.MaxInt/itemsPerPage {
		return false
	}
	return count >= page*itemsPerPage && count%itemsPerPage == 0
}

// GridController drives the cumulative product grid.
type GridController struct {
	mu           sync.Mutex
	nav          Navigator
	path         string
	itemsPerPage int

	current  url.Values
	sortBy   catalog.SortOption
	products []catalog.Product
	page     int
	hasMore  bool
	pending  bool
}

func NewGridController(nav Navigator, path string, itemsPerPage int) *GridController {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	return &GridController{
		nav:          nav,
		path:         path,
		itemsPerPage: itemsPerPage,
		current:      url.Values{},
		sortBy:       catalog.SortLatest,
		page:         1,
	}
}

// Begin marks a load for v as in flight. The grid shows placeholders until Refresh.
func (g *GridController) Begin(v url.Values) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = urlstate.Clone(v)
	g.sortBy = catalog.ParseSort(v.Get(urlstate.ParamSortBy))
	g.pending = true
}

// Refresh replaces the grid contents with a completed load.
func (g *GridController) Refresh(products []catalog.Product, page int) {
	if page < 1 {
		page = 1
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.products = append([]catalog.Product(nil), products...)
	g.page = page
	g.hasMore = InferHasMore(len(products), page, g.itemsPerPage)
	g.pending = false
}

// Abort ends a pending load without new data.
func (g *GridController) Abort() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = false
}

// LoadMore requests the next cumulative window, keeping sort and filters.
func (g *GridController) LoadMore() error {
	g.mu.Lock()
	if g.pending || !g.hasMore {
		g.mu.Unlock()
		return ErrNoMorePages
	}
	g.pending = true
	href := urlstate.Href(g.path, urlstate.WithPage(g.current, g.page+1, g.sortBy))
	g.mu.Unlock()

	g.nav.Replace(href)
	return nil
}

func (g *GridController) Products() []catalog.Product {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]catalog.Product(nil), g.products...)
}

func (g *GridController) Page() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.page
}

// HasMore reports whether the load-more control is offered.
func (g *GridController) HasMore() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hasMore && !g.pending
}

func (g *GridController) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// Empty reports the "no results" state.
func (g *GridController) Empty() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.products) == 0 && !g.pending
}
