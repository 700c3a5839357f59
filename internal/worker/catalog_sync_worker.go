package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/printshop-os/inventory_api/internal/service"
)

// CatalogSyncWorker periodically rebuilds the top-product ranking from
// order history and pushes it to the CMS.
type CatalogSyncWorker struct {
	analyzer    *service.AnalyzerService
	catalogSync *service.CatalogSyncService
	interval    time.Duration
	limit       int
}

// NewCatalogSyncWorker constructs a CatalogSyncWorker.
func NewCatalogSyncWorker(analyzer *service.AnalyzerService, catalogSync *service.CatalogSyncService, interval time.Duration, limit int) *CatalogSyncWorker {
	return &CatalogSyncWorker{
		analyzer:    analyzer,
		catalogSync: catalogSync,
		interval:    interval,
		limit:       limit,
	}
}

// Start begins the periodic sync loop and listens for context cancellation.
func (w *CatalogSyncWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting catalog sync worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Catalog sync worker stopped")
			return
		}
	}
}

func (w *CatalogSyncWorker) run(ctx context.Context) {
	log.Info().Msg("Rebuilding top-product catalog from order history...")

	start := time.Now()
	top, err := w.analyzer.Analyze(ctx, w.limit)
	if err != nil {
		log.Error().Err(err).Msg("Order analysis failed")
		return
	}

	result, err := w.catalogSync.SyncTopProducts(ctx, top, service.SyncOptions{})
	if err != nil {
		log.Error().Err(err).Msg("Top product sync failed")
		return
	}

	log.Info().
		Int("synced", result.Synced).
		Int("errors", result.Errors).
		Dur("duration", time.Since(start)).
		Msg("Catalog sync completed")
}
