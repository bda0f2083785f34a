// Package config reads service settings from the environment, after
// loading a .env file from the working directory when one exists.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPAddr         string
	ItemsPerPage     int
	FacetMaxPrice    decimal.Decimal
	FacetSizeLimit   int
	ApplyFilters     bool
	CatalogLatency   time.Duration
	DatabaseURL      string
	KafkaBrokers     string
	KafkaTopic       string
	KafkaGroup       string
	InsightsHTTPAddr string
	StorefrontURL    string
	PriceDebounce    time.Duration
	ShutdownTimeout  time.Duration
}

// Load reads .env (if present) and the environment. Malformed values are errors.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[Config] Ignoring .env: %v", err)
	}
	return FromEnv()
}

// FromEnv reads the process environment only.
func FromEnv() (*Config, error) {
	p := &parser{}
	cfg := &Config{
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		ItemsPerPage:     p.positiveInt("ITEMS_PER_PAGE", 18),
		FacetMaxPrice:    p.decimal("FACET_MAX_PRICE", decimal.NewFromInt(10000)),
		FacetSizeLimit:   p.positiveInt("FACET_SIZE_LIMIT", 5),
		ApplyFilters:     p.bool("CATALOG_APPLY_FILTERS", false),
		CatalogLatency:   p.duration("CATALOG_LATENCY", 0),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		KafkaBrokers:     getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "storefront-queries"),
		KafkaGroup:       getEnv("KAFKA_CONSUMER_GROUP", "insights"),
		InsightsHTTPAddr: getEnv("INSIGHTS_HTTP_ADDR", ":8081"),
		StorefrontURL:    strings.TrimRight(getEnv("STOREFRONT_URL", "http://localhost:8080"), "/"),
		PriceDebounce:    p.duration("PRICE_DEBOUNCE", 500*time.Millisecond),
		ShutdownTimeout:  p.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if p.err != nil {
		return nil, p.err
	}
	if !cfg.FacetMaxPrice.IsPositive() {
		return nil, fmt.Errorf("FACET_MAX_PRICE must be positive, got %s", cfg.FacetMaxPrice)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parser keeps the first error so Config can be built in one literal.
type parser struct {
	err error
}

func (p *parser) fail(key, raw string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s=%q: %w", key, raw, err)
	}
}

func (p *parser) positiveInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err == nil && n < 1 {
		err = fmt.Errorf("must be at least 1")
	}
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return n
}

func (p *parser) bool(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return b
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err == nil && d < 0 {
		err = fmt.Errorf("must not be negative")
	}
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return d
}

func (p *parser) decimal(key string, def decimal.Decimal) decimal.Decimal {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return d
}
