package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/printshop-os/inventory_api/internal/service"
)

// InventoryRefreshWorker keeps price and availability current on the
// curated CMS products.
type InventoryRefreshWorker struct {
	catalogSync *service.CatalogSyncService
	interval    time.Duration
	limit       int
}

// NewInventoryRefreshWorker constructs an InventoryRefreshWorker.
func NewInventoryRefreshWorker(catalogSync *service.CatalogSyncService, interval time.Duration, limit int) *InventoryRefreshWorker {
	return &InventoryRefreshWorker{
		catalogSync: catalogSync,
		interval:    interval,
		limit:       limit,
	}
}

// Start begins the periodic refresh loop and listens for context cancellation.
func (w *InventoryRefreshWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting inventory refresh worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Inventory refresh worker stopped")
			return
		}
	}
}

func (w *InventoryRefreshWorker) run(ctx context.Context) {
	log.Info().Msg("Refreshing inventory on curated products...")

	start := time.Now()
	result, err := w.catalogSync.UpdateInventory(ctx, w.limit)
	if err != nil {
		log.Error().Err(err).Msg("Inventory refresh failed")
		return
	}

	log.Info().
		Int("updated", result.Synced).
		Int("errors", result.Errors).
		Dur("duration", time.Since(start)).
		Msg("Inventory refresh completed")
}
