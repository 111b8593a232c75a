package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carhaven/backend/config"
	httpDelivery "github.com/carhaven/backend/internal/delivery/http"
	"github.com/carhaven/backend/internal/domain"
	"github.com/carhaven/backend/internal/infrastructure/cache"
	"github.com/carhaven/backend/internal/infrastructure/cms"
	"github.com/carhaven/backend/internal/infrastructure/i18n"
	"github.com/carhaven/backend/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting CarHaven Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer closeStore()
	log.Printf("Catalog snapshot TTL: %s", cfg.Catalog.CacheTTL)

	cmsClient := cms.NewClient(cms.Config{
		ProjectID:  cfg.CMS.ProjectID,
		Dataset:    cfg.CMS.Dataset,
		APIVersion: cfg.CMS.APIVersion,
		Token:      cfg.CMS.Token,
		BaseURL:    cfg.CMS.BaseURL,
		RateLimit:  cfg.CMS.RateLimit,
		Timeout:    cfg.CMS.Timeout,
	})

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		cmsClient.SetDebug(true)
		log.Printf("CMS client debug mode enabled")
	}
	log.Printf("CMS configured: project=%s dataset=%s", cfg.CMS.ProjectID, cfg.CMS.Dataset)
	if cfg.CMS.WebhookSecret == "" {
		log.Printf("WARNING: webhook secret not configured - catalog refresh endpoint is disabled")
	}

	images := cms.NewImageResolver(cfg.CMS.ImageCDN, cfg.CMS.ProjectID, cfg.CMS.Dataset)

	translator, err := i18n.NewTranslator()
	if err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}
	log.Printf("Languages: %v", translator.Languages())

	// Initialize usecase layer
	catalogService := usecase.NewCatalogService(
		store,
		cmsClient,
		usecase.CatalogServiceConfig{
			SnapshotTTL:    cfg.Catalog.CacheTTL,
			HighlightCount: cfg.Catalog.Highlights,
		},
	)
	comparisonService := usecase.NewComparisonService(store, catalogService)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(httpDelivery.HandlerDeps{
		Catalog:       catalogService,
		Comparison:    comparisonService,
		Images:        images,
		Localizer:     translator,
		WebhookSecret: cfg.CMS.WebhookSecret,
	})

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

// newStore builds the key-value store backing catalog snapshots and
// comparison sets
func newStore(ctx context.Context, cfg *config.Config) (domain.KeyValueStore, func(), error) {
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, cfg.Cache.KeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return redisCache, func() {
			if err := redisCache.Close(); err != nil {
				log.Printf("Redis close error: %v", err)
			}
		}, nil
	default:
		memoryCache := cache.NewMemoryCache()
		prometheus.MustRegister(memoryCache.SizeCollector())
		return memoryCache, func() { _ = memoryCache.Close() }, nil
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
