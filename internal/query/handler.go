package query

import (
	"context"
	"errors"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/example/shopspot/internal/analytics"
	"github.com/example/shopspot/internal/catalog"
	"github.com/example/shopspot/internal/controller"
	"github.com/example/shopspot/internal/readmodel"
	"github.com/example/shopspot/internal/urlstate"
	"github.com/shopspring/decimal"
)

// AnalyticsTimeout bounds one background analytics publish.
const AnalyticsTimeout = 5 * time.Second

type Handler struct {
	engine       *catalog.Engine
	recorder     *analytics.Recorder
	itemsPerPage int

	inflight sync.WaitGroup
}

// NewHandler serves catalog reads. recorder may be nil to skip analytics.
func NewHandler(engine *catalog.Engine, recorder *analytics.Recorder, itemsPerPage int) *Handler {
	if itemsPerPage <= 0 {
		itemsPerPage = controller.DefaultItemsPerPage
	}
	return &Handler{engine: engine, recorder: recorder, itemsPerPage: itemsPerPage}
}

func (h *Handler) ItemsPerPage() int {
	return h.itemsPerPage
}

func (h *Handler) MaxPrice() decimal.Decimal {
	return h.engine.MaxPrice()
}

func (h *Handler) FiltersEnabled() bool {
	return h.engine.FiltersEnabled()
}

// ParseParams reads storefront parameters against this catalog's price ceiling.
func (h *Handler) ParseParams(v url.Values) urlstate.Params {
	return urlstate.Parse(v, h.engine.MaxPrice())
}

// Products
func (h *Handler) ListProducts(ctx context.Context, p urlstate.Params) (*ProductListReadModel, error) {
	limit := p.Limit(h.itemsPerPage)
	res, err := h.engine.Query(ctx, catalog.Request{
		SortBy:  p.SortBy,
		Limit:   limit,
		Filters: p.Filters(),
	})
	if err != nil {
		log.Printf("[Query] Error listing products (page %d, sort %s): %v", p.Page, p.SortBy, err)
		return nil, err
	}

	list := &ProductListReadModel{
		Products:     readmodel.NewProductReadModels(res.Products),
		Page:         p.Page,
		ItemsPerPage: h.itemsPerPage,
		SortBy:       string(p.SortBy),
		Filters: FiltersReadModel{
			Categories: nonNil(p.Selection.Categories),
			Brands:     nonNil(p.Selection.Brands),
			Colors:     nonNil(p.Selection.Colors),
			Sizes:      nonNil(p.Selection.Sizes),
			MinPrice:   p.MinPrice,
			MaxPrice:   p.MaxPrice,
		},
		FiltersApplied: h.engine.FiltersEnabled(),
		TotalCount:     res.TotalCount,
		HasMore:        controller.InferHasMore(len(res.Products), p.Page, h.itemsPerPage),
	}

	h.record(ctx, p, limit, res)
	return list, nil
}

func (h *Handler) GetProduct(ctx context.Context, id string) (*ProductReadModel, bool) {
	p, err := h.engine.Product(ctx, id)
	if err != nil {
		if !errors.Is(err, catalog.ErrProductNotFound) {
			log.Printf("[Query] Error getting product %s: %v", id, err)
		}
		return nil, false
	}
	m := readmodel.NewProductReadModel(p)
	return &m, true
}

// Facets
func (h *Handler) Facets(ctx context.Context) (*FacetsReadModel, error) {
	opts, err := h.engine.FacetOptions(ctx)
	if err != nil {
		log.Printf("[Query] Error loading facet options: %v", err)
		return nil, err
	}
	m := readmodel.NewFacetsReadModel(opts)
	return &m, nil
}

func (h *Handler) record(ctx context.Context, p urlstate.Params, limit int, res catalog.Result) {
	if h.recorder == nil {
		return
	}
	e := analytics.CatalogQueried{
		RequestID:      analytics.RequestID(ctx),
		SortBy:         string(p.SortBy),
		Page:           p.Page,
		Limit:          limit,
		Categories:     p.Selection.Categories,
		Brands:         p.Selection.Brands,
		Colors:         p.Selection.Colors,
		Sizes:          p.Selection.Sizes,
		ResultCount:    len(res.Products),
		TotalCount:     res.TotalCount,
		FiltersApplied: h.engine.FiltersEnabled(),
	}
	if p.MinPrice != nil {
		e.MinPrice = p.MinPrice.String()
	}
	if p.MaxPrice != nil {
		e.MaxPrice = p.MaxPrice.String()
	}

	// The publish outlives the request and never delays the response.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), AnalyticsTimeout)
	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		defer cancel()
		if _, err := h.recorder.CatalogQueried(pubCtx, e); err != nil {
			log.Printf("[Query] Error recording query analytics: %v", err)
		}
	}()
}

// WaitForAnalytics blocks until background publishes finish or ctx is done.
func (h *Handler) WaitForAnalytics(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
