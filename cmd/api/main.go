package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/printshop-os/inventory_api/internal/cache"
	"github.com/printshop-os/inventory_api/internal/config"
	"github.com/printshop-os/inventory_api/internal/handler"
	"github.com/printshop-os/inventory_api/internal/middleware"
	"github.com/printshop-os/inventory_api/internal/service"
	"github.com/printshop-os/inventory_api/internal/worker"
	"github.com/printshop-os/inventory_api/pkg/ascolour"
	"github.com/printshop-os/inventory_api/pkg/sanmar"
	"github.com/printshop-os/inventory_api/pkg/ssactivewear"
	"github.com/printshop-os/inventory_api/pkg/strapi"
)

// main is the application entrypoint for the print-shop inventory API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting inventory api")

	// 3. Connect to Redis. Lookups still work without it, every check just
	// goes straight to the supplier.
	redisClient := cache.NewRedisClient(&cfg.Redis, cfg.Cache.Disabled)
	defer redisClient.Close()
	if redisClient.Connected() {
		log.Info().Msg("redis connected successfully")
	} else {
		log.Warn().Msg("redis unavailable - running without inventory cache")
	}

	// 3a. Initialize inventory cache
	stats := cache.NewStats(cfg.Cache.CostPerCall)
	invCache := cache.NewInventoryCache(redisClient, stats, cfg.Cache.TTL)

	// 4. Initialize the SanMar bulk catalog and its SFTP downloader
	catalog := sanmar.NewCatalog()
	downloader := sanmar.NewDownloader(sanmar.SFTPConfig{
		Host:      cfg.SanMar.SFTPHost,
		Port:      cfg.SanMar.SFTPPort,
		Username:  cfg.SanMar.SFTPUsername,
		Password:  cfg.SanMar.SFTPPassword,
		RemoteDir: cfg.SanMar.RemoteDir,
	})
	sanmarSyncSvc := service.NewSanMarSyncService(downloader, catalog, invCache, cfg.SanMar)

	// 5. Register supplier connectors. Unconfigured suppliers are left out
	// and their SKUs surface as SUPPLIER_ERROR.
	supplierRouter := service.NewSupplierRouter()
	if cfg.ASColour.Configured() {
		client := ascolour.NewClient(ascolour.Config{
			SubscriptionKey: cfg.ASColour.APIKey,
			Email:           cfg.ASColour.Email,
			Password:        cfg.ASColour.Password,
		})
		supplierRouter.Register(service.NewASColourConnector(client))
		log.Info().Msg("AS Colour connector registered")
	}
	if cfg.SSActivewear.Configured() {
		client := ssactivewear.NewClient(ssactivewear.Config{
			AccountNumber: cfg.SSActivewear.AccountNumber,
			APIKey:        cfg.SSActivewear.APIKey,
		})
		supplierRouter.Register(service.NewSSActivewearConnector(client))
		log.Info().Msg("S&S Activewear connector registered")
	}
	// SanMar serves from the bulk catalog, no credentials needed at lookup time
	supplierRouter.Register(service.NewSanMarConnector(catalog))
	log.Info().Msg("SanMar connector registered")
	if !cfg.SanMar.Configured() {
		log.Warn().Msg("SanMar SFTP credentials missing - catalog will only load local files")
	}

	// 6. Initialize CMS client and services
	cms := strapi.NewClient(strapi.Config{BaseURL: cfg.Strapi.URL, APIToken: cfg.Strapi.APIToken})
	inventorySvc := service.NewInventoryService(supplierRouter, invCache)
	analyzerSvc := service.NewAnalyzerService(cms)
	catalogSyncSvc := service.NewCatalogSyncService(cms, inventorySvc)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:    handler.NewHealthHandler(cms),
		Inventory: handler.NewInventoryHandler(inventorySvc),
		Catalog:   handler.NewCatalogHandler(catalogSyncSvc, analyzerSvc, sanmarSyncSvc),
	}

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(300, time.Minute)))
	setupRoutes(router, handlers)

	// 9. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 10. Start workers
	go worker.NewSanMarSyncWorker(sanmarSyncSvc, cfg.Worker.SanMarFullSyncInterval, cfg.Worker.SanMarDeltaSyncInterval).Start(ctx)
	go worker.NewCatalogSyncWorker(analyzerSvc, catalogSyncSvc, cfg.Worker.CatalogSyncInterval, cfg.Sync.TopProductLimit).Start(ctx)
	go worker.NewInventoryRefreshWorker(catalogSyncSvc, cfg.Worker.InventoryRefreshPeriod, cfg.Sync.TopProductLimit).Start(ctx)

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health    *handler.HealthHandler
	Inventory *handler.InventoryHandler
	Catalog   *handler.CatalogHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers) {
	router.GET("/health", handlers.Health.GetHealth)

	// Inventory lookups (flat response shapes, consumed by the UI directly)
	inventory := router.Group("/inventory")
	{
		inventory.GET("/check/:sku", handlers.Inventory.CheckInventory)
		inventory.GET("/check/:sku/color/:color", handlers.Inventory.CheckInventoryByColor)
		inventory.POST("/batch", handlers.Inventory.BatchCheck)
		inventory.GET("/health", handlers.Inventory.Health)
		inventory.GET("/stats", handlers.Inventory.Stats)
		inventory.POST("/stats/reset", handlers.Inventory.ResetStats)
		inventory.DELETE("/cache/:sku", handlers.Inventory.InvalidateSKU)
		inventory.DELETE("/cache", handlers.Inventory.InvalidateCache)
	}

	// Catalog browse and sync administration
	catalog := router.Group("/catalog")
	{
		catalog.GET("/search", handlers.Catalog.Search)
		catalog.GET("/top-products", handlers.Catalog.TopProducts)
		catalog.GET("/status", handlers.Catalog.Status)
		catalog.POST("/sync", handlers.Catalog.Sync)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
