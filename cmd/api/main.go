package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/example/shopspot/internal/analytics"
	"github.com/example/shopspot/internal/api"
	"github.com/example/shopspot/internal/catalog"
	"github.com/example/shopspot/internal/config"
	"github.com/example/shopspot/internal/infrastructure/kafka"
	"github.com/example/shopspot/internal/infrastructure/store"
	"github.com/example/shopspot/internal/query"
	gfshutdown "github.com/gelmium/graceful-shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] Invalid configuration: %v", err)
	}

	log.Println("[API] ========================================")
	log.Println("[API] ShopSpot Storefront")
	log.Println("[API] ========================================")

	products, source := loadCatalog(cfg)
	facetCfg := catalog.DefaultFacetConfig()
	facetCfg.MaxPrice = cfg.FacetMaxPrice
	facetCfg.SizeLimit = cfg.FacetSizeLimit
	catalogStore := catalog.NewStore(products, facetCfg)
	engine := catalog.NewEngine(catalogStore,
		catalog.WithFilters(cfg.ApplyFilters),
		catalog.WithLatency(cfg.CatalogLatency),
	)
	log.Printf("[API] Catalog: %d products from %s", catalogStore.Len(), source)
	log.Printf("[API] Filters applied: %v", cfg.ApplyFilters)

	var publisher analytics.Publisher = analytics.NoopPublisher{}
	var producer *kafka.Producer
	if brokers := kafka.ParseBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		producer = kafka.NewProducer(brokers, cfg.KafkaTopic)
		publisher = producer
		log.Printf("[API] Query analytics: Kafka %v topic %s", brokers, cfg.KafkaTopic)
	} else {
		log.Println("[API] Query analytics: disabled (KAFKA_BROKERS not set)")
	}

	hostname, _ := os.Hostname()
	queryHandler := query.NewHandler(engine, analytics.NewRecorder(publisher, hostname), cfg.ItemsPerPage)
	router := api.NewRouter(api.NewHandlers(queryHandler))

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("[API] Server started on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				log.Println("[API] Shutting down HTTP server...")
				return server.Shutdown(ctx)
			},
			"kafka-producer": func(ctx context.Context) error {
				if err := queryHandler.WaitForAnalytics(ctx); err != nil {
					log.Printf("[API] Dropping in-flight query analytics: %v", err)
				}
				if producer == nil {
					return nil
				}
				return producer.Close()
			},
		},
	)

	exitCode := <-wait
	log.Printf("[API] Exited with code %d", exitCode)
	os.Exit(exitCode)
}

// loadCatalog reads the snapshot from PostgreSQL when DATABASE_URL is set,
// otherwise it uses the built-in seed.
func loadCatalog(cfg *config.Config) ([]catalog.Product, string) {
	if cfg.DatabaseURL == "" {
		return catalog.SeedProducts(time.Now()), "built-in seed"
	}

	db, err := store.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[API] Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	products, err := store.NewPostgresCatalog(db).LoadProducts(ctx)
	if err != nil {
		log.Fatalf("[API] Failed to load catalog: %v", err)
	}
	return products, "PostgreSQL"
}
