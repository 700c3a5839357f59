package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/printshop-os/inventory_api/internal/service"
	"github.com/printshop-os/inventory_api/pkg/sanmar"
)

// SanMarSyncWorker keeps the in-memory SanMar catalog fresh: full bulk
// reloads on a slow cadence, quantity deltas on a fast one.
type SanMarSyncWorker struct {
	syncService   *service.SanMarSyncService
	fullInterval  time.Duration
	deltaInterval time.Duration
}

// NewSanMarSyncWorker constructs a SanMarSyncWorker.
func NewSanMarSyncWorker(syncService *service.SanMarSyncService, fullInterval, deltaInterval time.Duration) *SanMarSyncWorker {
	return &SanMarSyncWorker{
		syncService:   syncService,
		fullInterval:  fullInterval,
		deltaInterval: deltaInterval,
	}
}

// Start begins both sync loops and listens for context cancellation.
func (w *SanMarSyncWorker) Start(ctx context.Context) {
	log.Info().
		Dur("full_interval", w.fullInterval).
		Dur("delta_interval", w.deltaInterval).
		Msg("Starting SanMar sync worker")

	// Load the catalog immediately so lookups can be served
	w.runFull(ctx)

	fullTicker := time.NewTicker(w.fullInterval)
	defer fullTicker.Stop()
	deltaTicker := time.NewTicker(w.deltaInterval)
	defer deltaTicker.Stop()

	for {
		select {
		case <-fullTicker.C:
			w.runFull(ctx)
		case <-deltaTicker.C:
			w.runDelta(ctx)
		case <-ctx.Done():
			log.Info().Msg("SanMar sync worker stopped")
			return
		}
	}
}

func (w *SanMarSyncWorker) runFull(ctx context.Context) {
	log.Info().Msg("Reloading SanMar catalog from bulk files...")

	start := time.Now()
	if err := w.syncService.FullSync(ctx); err != nil {
		log.Error().Err(err).Msg("SanMar full sync failed")
		return
	}

	log.Info().Dur("duration", time.Since(start)).Msg("SanMar full sync completed")
}

func (w *SanMarSyncWorker) runDelta(ctx context.Context) {
	if err := w.syncService.DeltaSync(ctx); err != nil {
		if errors.Is(err, sanmar.ErrNotSynced) {
			log.Warn().Msg("Skipping delta sync, catalog not loaded yet")
			return
		}
		log.Error().Err(err).Msg("SanMar delta sync failed")
	}
}
