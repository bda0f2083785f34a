package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/example/shopspot/internal/catalog"
	"github.com/go-playground/validator/v10"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// PostgresCatalog reads the product snapshot from a catalog_products table:
//
//	id TEXT, title TEXT, image TEXT, original_price NUMERIC,
//	discounted_price NUMERIC NULL, rating DOUBLE PRECISION,
//	category TEXT, brand TEXT, color TEXT, size TEXT,
//	created_at TIMESTAMPTZ, position INT
//
// It is read once at startup and never written.
type PostgresCatalog struct {
	db *sql.DB
}

func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

const selectCatalogProducts = `
	SELECT id, title, image, original_price, discounted_price, rating,
	       category, brand, color, size, created_at
	FROM catalog_products ORDER BY position, id
`

// LoadProducts returns every well-formed row in catalog order.
func (c *PostgresCatalog) LoadProducts(ctx context.Context) ([]catalog.Product, error) {
	rows, err := c.db.QueryContext(ctx, selectCatalogProducts)
	if err != nil {
		return nil, fmt.Errorf("query catalog_products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

type productRow struct {
	ID              string `validate:"required"`
	Title           string `validate:"required"`
	Image           string
	OriginalPrice   decimal.Decimal
	DiscountedPrice decimal.NullDecimal
	Rating          float64 `validate:"gte=0,lte=5"`
	Category        string
	Brand           string
	Color           string
	Size            string
	CreatedAt       time.Time `validate:"required"`
}

func (r productRow) validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if !r.OriginalPrice.IsPositive() {
		return fmt.Errorf("original price %s is not positive", r.OriginalPrice)
	}
	return nil
}

func (r productRow) product() catalog.Product {
	p := catalog.Product{
		ID:            r.ID,
		Title:         r.Title,
		Image:         r.Image,
		OriginalPrice: r.OriginalPrice,
		Rating:        r.Rating,
		Category:      r.Category,
		Brand:         r.Brand,
		Color:         r.Color,
		Size:          r.Size,
		CreatedAt:     r.CreatedAt,
	}
	if r.DiscountedPrice.Valid {
		d := r.DiscountedPrice.Decimal
		p.DiscountedPrice = &d
	}
	return p
}

// scanProducts skips rows that fail to scan or validate, logging each one.
func scanProducts(rows rowScanner) ([]catalog.Product, error) {
	var products []catalog.Product
	for rows.Next() {
		var r productRow
		if err := rows.Scan(&r.ID, &r.Title, &r.Image, &r.OriginalPrice, &r.DiscountedPrice, &r.Rating,
			&r.Category, &r.Brand, &r.Color, &r.Size, &r.CreatedAt); err != nil {
			log.Printf("[PostgresCatalog] Error scanning product: %v", err)
			continue
		}
		if err := r.validate(); err != nil {
			log.Printf("[PostgresCatalog] Skipping product %q: %v", r.ID, err)
			continue
		}
		products = append(products, r.product())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog_products: %w", err)
	}
	return products, nil
}

// ConnectPostgres opens and pings a PostgreSQL pool.
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	// The catalog is loaded once; keep the pool small.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
