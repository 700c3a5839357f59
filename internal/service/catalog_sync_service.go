package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/printshop-os/inventory_api/internal/models"
	"github.com/printshop-os/inventory_api/pkg/strapi"
)

// productsCollection is the CMS collection holding the curated catalog.
const productsCollection = "products"

// SyncOptions tunes one sync run. Progress, when set, is invoked after
// every item whether it succeeded or not.
type SyncOptions struct {
	DryRun   bool
	Progress func(done, total int)
}

// inventoryPatch is the partial update applied by the inventory refresh.
// Only these fields may change; everything else on the document stays.
type inventoryPatch struct {
	BasePrice    float64   `json:"basePrice"`
	IsActive     bool      `json:"isActive"`
	LastSyncedAt time.Time `json:"lastSyncedAt"`
}

// CatalogSyncService pushes analyzed top products into the CMS catalog and
// keeps their price and availability fresh. One bad product never aborts a
// run; failures are counted and the run continues.
type CatalogSyncService struct {
	cms       *strapi.Client
	inventory *InventoryService
}

// NewCatalogSyncService creates the sync service over the CMS client and
// the query engine.
func NewCatalogSyncService(cms *strapi.Client, inventory *InventoryService) *CatalogSyncService {
	return &CatalogSyncService{cms: cms, inventory: inventory}
}

// SyncTopProducts upserts each analyzed product into the catalog, enriched
// with live supplier data when the style can be fetched, or from analysis
// data alone when it cannot. Returns early only on context cancellation.
func (s *CatalogSyncService) SyncTopProducts(ctx context.Context, products []models.TopProduct, opts SyncOptions) (*models.SyncResult, error) {
	result := &models.SyncResult{}
	total := len(products)

	for i, tp := range products {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		doc := s.buildDocument(ctx, &tp)
		if opts.DryRun {
			log.Info().Str("sku", doc.SKU).Str("name", doc.Name).Msg("Dry run, would sync product")
		} else if err := s.upsert(ctx, doc); err != nil {
			result.Errors++
			log.Warn().Err(err).Str("sku", doc.SKU).Msg("Failed to sync product")
		} else {
			result.Synced++
		}

		if opts.Progress != nil {
			opts.Progress(i+1, total)
		}
	}

	log.Info().
		Int("synced", result.Synced).
		Int("errors", result.Errors).
		Bool("dry_run", opts.DryRun).
		Msg("Top product sync finished")
	return result, nil
}

// buildDocument assembles the catalog document for one top product. The
// supplier lookup is best-effort: styles no supplier recognizes still get a
// basic record so quoting can reference them.
func (s *CatalogSyncService) buildDocument(ctx context.Context, tp *models.TopProduct) *models.CatalogProduct {
	now := time.Now().UTC()
	doc := &models.CatalogProduct{
		SKU:               tp.StyleNumber,
		Name:              tp.StyleName,
		Brand:             DetectBrand(tp.StyleName),
		Category:          string(models.CategoryOther),
		Supplier:          DetectSupplier(tp.StyleNumber),
		Colors:            tp.SampleColors,
		Tags:              tp.Categories,
		IsActive:          true,
		IsTopProduct:      true,
		IsCurated:         true,
		OrderCount:        tp.OrderCount,
		TotalUnitsOrdered: tp.TotalQuantity,
		TopProductScore:   tp.Score,
		Priority:          priorityFromScore(tp.Score),
		LastOrderedAt:     tp.LastUsed,
		LastSyncedAt:      &now,
	}

	supplier, conn := s.inventory.Router().Route(tp.StyleNumber)
	if conn == nil {
		return doc
	}
	product, err := conn.FetchProduct(ctx, StripRoutingPrefix(tp.StyleNumber))
	if err != nil || product == nil {
		if err != nil {
			log.Debug().Err(err).Str("sku", tp.StyleNumber).Msg("Supplier enrichment unavailable")
		}
		return doc
	}

	doc.Name = product.Name
	if product.Brand != "" {
		doc.Brand = product.Brand
	}
	doc.Description = product.Description
	doc.Category = string(product.Category)
	doc.Supplier = supplier
	doc.BasePrice = product.Pricing.BasePrice
	doc.Images = product.Images
	doc.VariantCount = len(product.Variants)
	doc.TotalInventory = product.Availability.TotalQuantity
	doc.IsActive = product.Availability.InStock
	return doc
}

// upsert finds the document by SKU and updates it, or creates it. The
// CMS-owned usageCount survives updates.
func (s *CatalogSyncService) upsert(ctx context.Context, doc *models.CatalogProduct) error {
	var existing []models.CatalogProduct
	if _, err := s.cms.Find(ctx, productsCollection, strapi.FindOptions{
		Filters:  map[string]string{"sku": doc.SKU},
		PageSize: 1,
	}, &existing); err != nil {
		return err
	}

	if len(existing) > 0 {
		doc.UsageCount = existing[0].UsageCount
		doc.DocumentID = ""
		return s.cms.Update(ctx, productsCollection, existing[0].DocumentID, doc)
	}
	return s.cms.Create(ctx, productsCollection, doc)
}

// TopProducts returns the curated catalog ordered by score.
func (s *CatalogSyncService) TopProducts(ctx context.Context, limit int) ([]models.CatalogProduct, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	docs, _, err := s.TopProductsPage(ctx, 1, limit)
	return docs, err
}

// TopProductsPage returns one page of the curated catalog ordered by score,
// plus the total number of curated products for pagination.
func (s *CatalogSyncService) TopProductsPage(ctx context.Context, page, pageSize int) ([]models.CatalogProduct, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultTopLimit
	}

	var docs []models.CatalogProduct
	p, err := s.cms.Find(ctx, productsCollection, strapi.FindOptions{
		Filters:   map[string]string{"isTopProduct": "true"},
		Sort:      "topProductScore:desc",
		Page:      page,
		PageSize:  pageSize,
		WithCount: true,
	}, &docs)
	if err != nil {
		return nil, 0, err
	}
	return docs, p.Total, nil
}

// UpdateInventory re-checks every curated product through the query engine
// and patches price, availability and the sync timestamp on its document.
func (s *CatalogSyncService) UpdateInventory(ctx context.Context, limit int) (*models.SyncResult, error) {
	docs, err := s.TopProducts(ctx, limit)
	if err != nil {
		return nil, err
	}

	result := &models.SyncResult{}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if doc.SKU == "" || doc.DocumentID == "" {
			continue
		}

		resp, err := s.inventory.CheckInventory(ctx, doc.SKU, false)
		if err != nil {
			result.Errors++
			log.Warn().Err(err).Str("sku", doc.SKU).Msg("Inventory refresh lookup failed")
			continue
		}

		patch := inventoryPatch{
			BasePrice:    resp.Price,
			IsActive:     anyInStock(resp),
			LastSyncedAt: time.Now().UTC(),
		}
		if err := s.cms.Update(ctx, productsCollection, doc.DocumentID, patch); err != nil {
			result.Errors++
			log.Warn().Err(err).Str("sku", doc.SKU).Msg("Inventory refresh update failed")
			continue
		}
		result.Synced++
	}

	log.Info().
		Int("updated", result.Synced).
		Int("errors", result.Errors).
		Msg("Inventory refresh finished")
	return result, nil
}

// CatalogStatus is the operational overview shown by the CLI and ops routes.
type CatalogStatus struct {
	CMSHealthy    bool                         `json:"cmsHealthy"`
	TotalProducts int                          `json:"totalProducts"`
	TopProducts   int                          `json:"topProducts"`
	Suppliers     map[models.SupplierCode]bool `json:"suppliers"`
}

// Status probes the CMS and every registered supplier connection.
func (s *CatalogSyncService) Status(ctx context.Context) *CatalogStatus {
	status := &CatalogStatus{
		CMSHealthy: s.cms.Health(ctx),
		Suppliers:  make(map[models.SupplierCode]bool),
	}

	for code, conn := range s.inventory.Router().Connectors() {
		status.Suppliers[code] = conn.TestConnection(ctx)
	}

	if status.CMSHealthy {
		if n, err := s.cms.Count(ctx, productsCollection, nil); err == nil {
			status.TotalProducts = n
		}
		if n, err := s.cms.Count(ctx, productsCollection, map[string]string{"isTopProduct": "true"}); err == nil {
			status.TopProducts = n
		}
	}
	return status
}

// priorityFromScore clamps a 0-100 score into the integer priority field.
func priorityFromScore(score float64) int {
	p := int(score)
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// anyInStock reports whether any variant of a check has stock.
func anyInStock(resp *models.InventoryCheckResponse) bool {
	for _, v := range resp.Inventory {
		if v.InStock {
			return true
		}
	}
	return false
}
