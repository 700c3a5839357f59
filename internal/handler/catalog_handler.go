package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/printshop-os/inventory_api/internal/service"
	"github.com/printshop-os/inventory_api/internal/utils"
)

// CatalogHandler serves catalog browse and sync administration endpoints.
type CatalogHandler struct {
	catalogSync *service.CatalogSyncService
	analyzer    *service.AnalyzerService
	sanmarSync  *service.SanMarSyncService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalogSync *service.CatalogSyncService, analyzer *service.AnalyzerService, sanmarSync *service.SanMarSyncService) *CatalogHandler {
	return &CatalogHandler{
		catalogSync: catalogSync,
		analyzer:    analyzer,
		sanmarSync:  sanmarSync,
	}
}

// Search handles GET /catalog/search. Only the in-memory SanMar catalog is
// searchable; REST suppliers are queried per SKU, not browsed.
func (h *CatalogHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.Error(c, 400, "INVALID_REQUEST", "Query parameter q is required")
		return
	}

	limit := intQuery(c, "limit", 20)

	catalog := h.sanmarSync.Catalog()
	if !catalog.Loaded() {
		utils.Error(c, 503, "NOT_SYNCED", "SanMar catalog not yet synced")
		return
	}

	styles := catalog.Search(query, limit)
	utils.Success(c, 200, "Catalog search completed", gin.H{
		"query":  query,
		"count":  len(styles),
		"styles": styles,
	})
}

// TopProducts handles GET /catalog/top-products?page=&limit=.
func (h *CatalogHandler) TopProducts(c *gin.Context) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 50)

	products, total, err := h.catalogSync.TopProductsPage(c.Request.Context(), page, limit)
	if err != nil {
		utils.Error(c, 502, "CMS_ERROR", "Failed to fetch top products")
		return
	}

	utils.SuccessWithPagination(c, 200, "Top products retrieved successfully", gin.H{
		"count":    len(products),
		"products": products,
	}, page, limit, total)
}

type catalogSyncRequest struct {
	Limit  int  `json:"limit"`
	DryRun bool `json:"dryRun"`
}

// Sync handles POST /catalog/sync. The analysis plus CMS push can take
// minutes on a full order history, so it runs in the background and the
// request returns 202 immediately.
func (h *CatalogHandler) Sync(c *gin.Context) {
	var req catalogSyncRequest
	_ = c.ShouldBindJSON(&req) // empty body means defaults
	if req.Limit <= 0 {
		req.Limit = service.DefaultTopLimit
	}

	go h.runSync(req.Limit, req.DryRun)

	utils.Success(c, 202, "Catalog sync started", gin.H{
		"limit":  req.Limit,
		"dryRun": req.DryRun,
	})
}

func (h *CatalogHandler) runSync(limit int, dryRun bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	top, err := h.analyzer.Analyze(ctx, limit)
	if err != nil {
		log.Error().Err(err).Msg("Catalog sync: order analysis failed")
		return
	}

	result, err := h.catalogSync.SyncTopProducts(ctx, top, service.SyncOptions{DryRun: dryRun})
	if err != nil {
		log.Error().Err(err).Msg("Catalog sync: CMS push failed")
		return
	}

	log.Info().
		Int("synced", result.Synced).
		Int("errors", result.Errors).
		Bool("dry_run", dryRun).
		Msg("Catalog sync finished")
}

// Status handles GET /catalog/status.
func (h *CatalogHandler) Status(c *gin.Context) {
	utils.Success(c, 200, "Catalog status", h.catalogSync.Status(c.Request.Context()))
}

// intQuery reads a positive integer query parameter, falling back to def.
func intQuery(c *gin.Context, name string, def int) int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
