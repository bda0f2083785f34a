package api

import (
	"bytes"
	_ "embed"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"sort"

	"github.com/example/shopspot/internal/catalog"
	"github.com/example/shopspot/internal/query"
	"github.com/example/shopspot/internal/urlstate"
	"golang.org/x/sync/errgroup"
)

// commitParam marks a submitted price form. It is never part of a canonical URL.
const commitParam = "commit"

//go:embed templates/storefront.html
var storefrontHTML string

type pageRenderer struct {
	tmpl *template.Template
}

func newPageRenderer() *pageRenderer {
	return &pageRenderer{tmpl: template.Must(template.New("storefront").Parse(storefrontHTML))}
}

func (p *pageRenderer) render(w http.ResponseWriter, view *pageView) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, view); err != nil {
		log.Printf("[API] Error rendering storefront: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

type facetOption struct {
	Value    string
	Selected bool
	Href     string
}

type facetGroup struct {
	Title   string
	Param   string
	Options []facetOption
}

type sortLink struct {
	Label    string
	Value    string
	Selected bool
	Href     string
}

type hiddenField struct {
	Name  string
	Value string
}

type productCard struct {
	query.ProductReadModel
	Display  string
	Original string
	Stars    []string
}

type pageView struct {
	Crumbs         []urlstate.Crumb
	Facets         []facetGroup
	PriceMin       string
	PriceMax       string
	PriceCeiling   string
	PriceHidden    []hiddenField
	SortLabel      string
	Sorts          []sortLink
	Products       []productCard
	Empty          bool
	LoadMoreHref   string
	ResetHref      string
	Shown          int
	TotalCount     int
	FiltersApplied bool
}

// Storefront renders the catalog page. A submitted price form is redirected
// to its canonical URL first.
func (h *Handlers) Storefront(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	if v.Has(commitParam) {
		v.Del(commitParam)
		p := h.queryHandler.ParseParams(v)
		next := urlstate.CommitFilters(v, p.Selection, p.Price, h.queryHandler.MaxPrice())
		http.Redirect(w, r, urlstate.Href(r.URL.Path, next), http.StatusSeeOther)
		return
	}

	params := h.queryHandler.ParseParams(v)

	var (
		facets *query.FacetsReadModel
		list   *query.ProductListReadModel
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		facets, err = h.queryHandler.Facets(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		list, err = h.queryHandler.ListProducts(ctx, params)
		return err
	})
	if err := g.Wait(); err != nil {
		status := statusFor(err)
		http.Error(w, http.StatusText(status), status)
		return
	}

	h.page.render(w, buildPageView(r.URL.Path, v, params, facets, list))
}

func buildPageView(path string, v url.Values, p urlstate.Params, facets *query.FacetsReadModel, list *query.ProductListReadModel) *pageView {
	ceiling := facets.MaxPrice
	view := &pageView{
		Crumbs:         urlstate.Breadcrumbs(path, p.Selection),
		PriceMin:       p.Price.Min.String(),
		PriceMax:       p.Price.Max.String(),
		PriceCeiling:   ceiling.String(),
		SortLabel:      p.SortBy.Label(),
		Empty:          len(list.Products) == 0,
		ResetHref:      urlstate.Href(path, nil),
		Shown:          len(list.Products),
		TotalCount:     list.TotalCount,
		FiltersApplied: list.FiltersApplied,
	}

	groups := []struct {
		title, param string
		values       []string
	}{
		{"Categories", urlstate.ParamCategory, facets.Categories},
		{"Brands", urlstate.ParamBrand, facets.Brands},
		{"Colors", urlstate.ParamColor, facets.Colors},
		{"Sizes", urlstate.ParamSize, facets.Sizes},
	}
	for _, g := range groups {
		group := facetGroup{Title: g.title, Param: g.param}
		current := p.Selection.Facet(g.param)
		for _, value := range g.values {
			sel := p.Selection.WithFacet(g.param, urlstate.Toggle(current, value))
			group.Options = append(group.Options, facetOption{
				Value:    value,
				Selected: urlstate.Contains(current, value),
				Href:     urlstate.Href(path, urlstate.CommitFilters(v, sel, p.Price, ceiling)),
			})
		}
		view.Facets = append(view.Facets, group)
	}

	for _, param := range urlstate.FacetParams {
		if set := p.Selection.Facet(param); len(set) > 0 {
			view.PriceHidden = append(view.PriceHidden, hiddenField{Name: param, Value: urlstate.JoinSet(set)})
		}
	}
	if p.SortBy != catalog.SortLatest {
		view.PriceHidden = append(view.PriceHidden, hiddenField{Name: urlstate.ParamSortBy, Value: string(p.SortBy)})
	}
	view.PriceHidden = append(view.PriceHidden, passthroughFields(v)...)

	for _, opt := range catalog.SortOptions() {
		view.Sorts = append(view.Sorts, sortLink{
			Label:    opt.Label(),
			Value:    string(opt),
			Selected: opt == p.SortBy,
			Href:     urlstate.Href(path, urlstate.WithSort(v, opt)),
		})
	}

	for _, m := range list.Products {
		full, half, empty := m.ToProduct().Stars()
		card := productCard{
			ProductReadModel: m,
			Display:          m.DisplayPrice.StringFixed(2),
			Original:         m.OriginalPrice.StringFixed(2),
		}
		for i := 0; i < full; i++ {
			card.Stars = append(card.Stars, "full")
		}
		for i := 0; i < half; i++ {
			card.Stars = append(card.Stars, "half")
		}
		for i := 0; i < empty; i++ {
			card.Stars = append(card.Stars, "empty")
		}
		view.Products = append(view.Products, card)
	}

	if list.HasMore {
		view.LoadMoreHref = urlstate.Href(path, urlstate.WithPage(v, p.Page+1, p.SortBy))
	}
	return view
}

// passthroughFields carries parameters the storefront does not own through
// the price form so a price commit preserves them.
func passthroughFields(v url.Values) []hiddenField {
	keys := make([]string, 0, len(v))
	for k := range v {
		if !ownedParams[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var fields []hiddenField
	for _, k := range keys {
		for _, value := range v[k] {
			fields = append(fields, hiddenField{Name: k, Value: value})
		}
	}
	return fields
}

var ownedParams = map[string]bool{
	urlstate.ParamCategory: true,
	urlstate.ParamBrand:    true,
	urlstate.ParamColor:    true,
	urlstate.ParamSize:     true,
	urlstate.ParamMinPrice: true,
	urlstate.ParamMaxPrice: true,
	urlstate.ParamPage:     true,
	urlstate.ParamSortBy:   true,
	commitParam:            true,
}
