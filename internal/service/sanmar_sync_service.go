package service

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/printshop-os/inventory_api/internal/cache"
	"github.com/printshop-os/inventory_api/internal/config"
	"github.com/printshop-os/inventory_api/internal/models"
	"github.com/printshop-os/inventory_api/pkg/sanmar"
)

// SanMarSyncService refreshes the in-memory SanMar catalog from the SFTP
// bulk drop. Without SFTP credentials it still loads whatever files a
// previous run left in the data directory, so restarts never lose the
// catalog just because the drop is unreachable.
type SanMarSyncService struct {
	downloader *sanmar.Downloader
	catalog    *sanmar.Catalog
	cache      *cache.InventoryCache
	cfg        config.SanMarConfig
}

// NewSanMarSyncService creates the sync service. invCache may be nil when
// no cache invalidation is wanted (CLI one-shots).
func NewSanMarSyncService(downloader *sanmar.Downloader, catalog *sanmar.Catalog, invCache *cache.InventoryCache, cfg config.SanMarConfig) *SanMarSyncService {
	return &SanMarSyncService{downloader: downloader, catalog: catalog, cache: invCache, cfg: cfg}
}

// Catalog exposes the backing catalog.
func (s *SanMarSyncService) Catalog() *sanmar.Catalog {
	return s.catalog
}

// FullSync downloads the product and SKU bulk files and rebuilds the whole
// catalog, then drops every cached SanMar inventory record so lookups see
// the new quantities immediately.
func (s *SanMarSyncService) FullSync(ctx context.Context) error {
	start := time.Now()

	if s.downloader.Configured() {
		files := []string{s.cfg.ProductFile, s.cfg.SKUFile}
		if _, err := s.downloader.DownloadAll(ctx, files, s.cfg.DataDir); err != nil {
			log.Warn().Err(err).Msg("SanMar bulk download failed, trying local files")
		}
	}

	styles, skus, err := sanmar.LoadFiles(s.catalog,
		filepath.Join(s.cfg.DataDir, s.cfg.ProductFile),
		filepath.Join(s.cfg.DataDir, s.cfg.SKUFile))
	if err != nil {
		return err
	}

	s.invalidateCached(ctx)
	log.Info().
		Int("styles", styles).
		Int("skus", skus).
		Dur("took", time.Since(start)).
		Msg("SanMar catalog rebuilt")
	return nil
}

// DeltaSync applies the hourly inventory delta to the loaded catalog.
// Running it before a full sync is an error; there is nothing to patch.
func (s *SanMarSyncService) DeltaSync(ctx context.Context) error {
	if !s.catalog.Loaded() {
		return sanmar.ErrNotSynced
	}

	if s.downloader.Configured() {
		if _, err := s.downloader.Download(ctx, s.cfg.DeltaFile, s.cfg.DataDir); err != nil {
			log.Warn().Err(err).Msg("SanMar delta download failed, trying local file")
		}
	}

	applied, err := sanmar.ApplyDeltaFile(s.catalog, filepath.Join(s.cfg.DataDir, s.cfg.DeltaFile))
	if err != nil {
		return err
	}

	s.invalidateCached(ctx)
	log.Info().Int("applied", applied).Msg("SanMar inventory delta applied")
	return nil
}

func (s *SanMarSyncService) invalidateCached(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if n := s.cache.InvalidatePattern(ctx, string(models.SupplierSanMar)+":*"); n > 0 {
		log.Debug().Int("keys", n).Msg("Invalidated cached SanMar inventory")
	}
}
