package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/example/shopspot/internal/api"
	"github.com/example/shopspot/internal/config"
	"github.com/example/shopspot/internal/infrastructure/kafka"
	"github.com/example/shopspot/internal/infrastructure/store"
	"github.com/example/shopspot/internal/projection"
	"github.com/example/shopspot/internal/query"
	gfshutdown "github.com/gelmium/graceful-shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Insights] Invalid configuration: %v", err)
	}

	brokers := kafka.ParseBrokers(cfg.KafkaBrokers)
	if len(brokers) == 0 {
		log.Fatal("[Insights] KAFKA_BROKERS is required")
	}

	log.Println("[Insights] ========================================")
	log.Println("[Insights] ShopSpot - Query Insights")
	log.Println("[Insights] ========================================")
	log.Printf("[Insights] Kafka: %v", brokers)
	log.Printf("[Insights] Topic: %s", cfg.KafkaTopic)
	log.Printf("[Insights] Group: %s", cfg.KafkaGroup)
	if cfg.DatabaseURL != "" {
		log.Println("[Insights] Read models: PostgreSQL")
	} else {
		log.Println("[Insights] Read models: in-memory")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	readStore, closeStore := openReadStore(cfg.DatabaseURL)
	projector := projection.NewProjector(readStore)

	consumer := kafka.NewConsumer(brokers, cfg.KafkaTopic, cfg.KafkaGroup)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		log.Println("[Insights] Starting event consumer...")
		if err := consumer.Consume(ctx, projector.HandleEvent); err != nil && ctx.Err() == nil {
			log.Printf("[Insights] Consumer error: %v", err)
		}
	}()

	router := api.NewInsightsRouter(api.NewInsightsHandlers(query.NewInsightsHandler(readStore)))
	server := &http.Server{
		Addr:              cfg.InsightsHTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("[Insights] Server started on %s", cfg.InsightsHTTPAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[Insights] Server error: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				return server.Shutdown(ctx)
			},
			"kafka-consumer": func(ctx context.Context) error {
				log.Println("[Insights] Stopping consumer...")
				cancel()
				select {
				case <-consumerDone:
				case <-ctx.Done():
				}
				err := consumer.Close()
				closeStore()
				return err
			},
		},
	)

	exitCode := <-wait
	log.Printf("[Insights] Exited with code %d", exitCode)
	os.Exit(exitCode)
}

// openReadStore persists read models in PostgreSQL when databaseURL is set,
// otherwise they live in memory for the life of the process.
func openReadStore(databaseURL string) (store.ReadStoreInterface, func()) {
	if databaseURL == "" {
		return store.NewReadStore(), func() {}
	}

	db, err := store.ConnectPostgres(databaseURL)
	if err != nil {
		log.Fatalf("[Insights] Failed to connect to PostgreSQL: %v", err)
	}
	rs := store.NewPostgresReadStore(db)
	if err := rs.Migrate(); err != nil {
		db.Close()
		log.Fatalf("[Insights] Failed to create insight tables: %v", err)
	}
	return rs, func() { db.Close() }
}
