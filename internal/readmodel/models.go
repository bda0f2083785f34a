package readmodel

import (
	"time"

	"github.com/example/shopspot/internal/catalog"
	"github.com/shopspring/decimal"
)

// ProductReadModel is the product card as served by the storefront API
type ProductReadModel struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Image           string           `json:"image"`
	OriginalPrice   decimal.Decimal  `json:"originalPrice"`
	DiscountedPrice *decimal.Decimal `json:"discountedPrice,omitempty"`
	DisplayPrice    decimal.Decimal  `json:"displayPrice"`
	DiscountPercent int              `json:"discountPercent"`
	OnSale          bool             `json:"onSale"`
	Rating          float64          `json:"rating"`
	Category        string           `json:"category"`
	Brand           string           `json:"brand"`
	Color           string           `json:"color"`
	Size            string           `json:"size"`
	CreatedAt       int64            `json:"createdAt"` // epoch milliseconds
}

func NewProductReadModel(p catalog.Product) ProductReadModel {
	return ProductReadModel{
		ID:              p.ID,
		Title:           p.Title,
		Image:           p.Image,
		OriginalPrice:   p.OriginalPrice,
		DiscountedPrice: p.DiscountedPrice,
		DisplayPrice:    p.DisplayPrice(),
		DiscountPercent: p.DiscountPercent(),
		OnSale:          p.OnSale(),
		Rating:          p.Rating,
		Category:        p.Category,
		Brand:           p.Brand,
		Color:           p.Color,
		Size:            p.Size,
		CreatedAt:       p.EpochMillis(),
	}
}

func NewProductReadModels(products []catalog.Product) []ProductReadModel {
	out := make([]ProductReadModel, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductReadModel(p))
	}
	return out
}

// ToProduct rebuilds the catalog record. Derived fields are recomputed by catalog.Product.
func (m ProductReadModel) ToProduct() catalog.Product {
	return catalog.Product{
		ID:              m.ID,
		Title:           m.Title,
		Image:           m.Image,
		OriginalPrice:   m.OriginalPrice,
		DiscountedPrice: m.DiscountedPrice,
		Rating:          m.Rating,
		Category:        m.Category,
		Brand:           m.Brand,
		Color:           m.Color,
		Size:            m.Size,
		CreatedAt:       time.UnixMilli(m.CreatedAt).UTC(),
	}
}

// FiltersReadModel echoes the filter parameters a list was requested with
type FiltersReadModel struct {
	Categories []string         `json:"categories"`
	Brands     []string         `json:"brands"`
	Colors     []string         `json:"colors"`
	Sizes      []string         `json:"sizes"`
	MinPrice   *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice   *decimal.Decimal `json:"maxPrice,omitempty"`
}

// ProductListReadModel is one cumulative window of the catalog.
// HasMore is the page-shape guess the grid uses; TotalCount is exact.
type ProductListReadModel struct {
	Products       []ProductReadModel `json:"products"`
	Page           int                `json:"page"`
	ItemsPerPage   int                `json:"itemsPerPage"`
	SortBy         string             `json:"sortBy"`
	Filters        FiltersReadModel   `json:"filters"`
	FiltersApplied bool               `json:"filtersApplied"`
	TotalCount     int                `json:"totalCount"`
	HasMore        bool               `json:"hasMore"`
}

// Catalog rebuilds the product records of the window.
func (l ProductListReadModel) Catalog() []catalog.Product {
	out := make([]catalog.Product, 0, len(l.Products))
	for _, p := range l.Products {
		out = append(out, p.ToProduct())
	}
	return out
}

// FacetsReadModel is the sidebar's option lists
type FacetsReadModel struct {
	Categories []string        `json:"categories"`
	Brands     []string        `json:"brands"`
	Colors     []string        `json:"colors"`
	Sizes      []string        `json:"sizes"`
	MaxPrice   decimal.Decimal `json:"maxPrice"`
}

func NewFacetsReadModel(f catalog.FacetOptions) FacetsReadModel {
	return FacetsReadModel{
		Categories: f.Categories,
		Brands:     f.Brands,
		Colors:     f.Colors,
		Sizes:      f.Sizes,
		MaxPrice:   f.MaxPrice,
	}
}

func (f FacetsReadModel) Options() catalog.FacetOptions {
	return catalog.FacetOptions{
		Categories: f.Categories,
		Brands:     f.Brands,
		Colors:     f.Colors,
		Sizes:      f.Sizes,
		MaxPrice:   f.MaxPrice,
	}
}
