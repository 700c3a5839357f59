package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/printshop-os/inventory_api/internal/cache"
	"github.com/printshop-os/inventory_api/internal/models"
	"github.com/printshop-os/inventory_api/pkg/sanmar"
)

const (
	// MaxBatchSize caps the number of SKUs accepted by one batch call.
	MaxBatchSize = 50
	// batchConcurrency bounds parallel lookups inside a batch so one slow
	// supplier cannot serialize the rest.
	batchConcurrency = 5
	// maxSKULength rejects obviously malformed input before any I/O.
	maxSKULength = 64
)

// Batch validation errors, mapped to 400 by the HTTP layer.
var (
	ErrBatchEmpty    = errors.New("batch requires at least one SKU")
	ErrBatchTooLarge = errors.New("batch exceeds maximum of 50 SKUs")
)

var validSKU = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9/ _.-]*$`)

// InventoryService is the query engine: it orchestrates router, cache,
// supplier client and transformer for single, color-filtered and batch
// lookups, and owns TTL policy and hit/miss accounting.
type InventoryService struct {
	router *SupplierRouter
	cache  *cache.InventoryCache
}

// NewInventoryService creates the query engine over a connector registry
// and the shared inventory cache.
func NewInventoryService(router *SupplierRouter, invCache *cache.InventoryCache) *InventoryService {
	return &InventoryService{router: router, cache: invCache}
}

// Router exposes the connector registry for health checks and the catalog
// sync service.
func (s *InventoryService) Router() *SupplierRouter {
	return s.router
}

// Cache exposes the inventory cache for the ops surface.
func (s *InventoryService) Cache() *cache.InventoryCache {
	return s.cache
}

// CheckInventory resolves one SKU: route, cache read (unless forceRefresh),
// supplier fetch on miss, cache write-through. Failures come back as
// *LookupError; the response's Cached flag tells whether a supplier call
// was avoided.
func (s *InventoryService) CheckInventory(ctx context.Context, sku string, forceRefresh bool) (*models.InventoryCheckResponse, error) {
	normalized, err := normalizeSKU(sku)
	if err != nil {
		return nil, err
	}

	supplier, conn := s.router.Route(normalized)

	if !forceRefresh {
		if hit := s.cache.Get(ctx, supplier, normalized); hit != nil {
			hit.Cached = true
			return hit, nil
		}
	}

	if conn == nil {
		return nil, SupplierError(normalized, supplier, "supplier not configured", nil)
	}

	product, err := conn.FetchProduct(ctx, StripRoutingPrefix(normalized))
	if err != nil {
		if errors.Is(err, sanmar.ErrNotSynced) {
			return nil, SupplierError(normalized, supplier, "catalog not yet synced", err)
		}
		return nil, SupplierError(normalized, supplier, "supplier lookup failed", err)
	}
	s.cache.Stats().RecordAPICall()
	if product == nil {
		return nil, NotFoundError(normalized, supplier)
	}

	resp := buildCheckResponse(normalized, product, s.cache.TTL())
	s.cache.Set(ctx, resp)

	log.Debug().
		Str("sku", normalized).
		Str("supplier", string(supplier)).
		Int("total_qty", resp.TotalQty).
		Msg("Inventory fetched from supplier")
	return resp, nil
}

// CheckInventoryByColor runs a full lookup and filters variants by a
// case-insensitive substring match on color name, recomputing the total
// over the subset. The underlying cached record is never shrunk.
func (s *InventoryService) CheckInventoryByColor(ctx context.Context, sku, color string) (*models.InventoryCheckResponse, error) {
	full, err := s.CheckInventory(ctx, sku, false)
	if err != nil {
		return nil, err
	}
	return full.FilterByColor(color), nil
}

// BatchCheck looks up each SKU independently in bounded concurrent groups.
// One bad SKU never fails the others: every key of the result map carries
// either a response or a typed error.
func (s *InventoryService) BatchCheck(ctx context.Context, skus []string) (*models.BatchResponse, error) {
	if len(skus) == 0 {
		return nil, ErrBatchEmpty
	}
	if len(skus) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	results := make(map[string]models.BatchResult, len(skus))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, batchConcurrency)

	for _, sku := range skus {
		wg.Add(1)
		sem <- struct{}{}
		go func(sku string) {
			defer wg.Done()
			defer func() { <-sem }()

			var entry models.BatchResult
			resp, err := s.CheckInventory(ctx, sku, false)
			if err != nil {
				entry.Error = batchError(err)
			} else {
				entry.Result = resp
			}

			mu.Lock()
			results[sku] = entry
			mu.Unlock()
		}(sku)
	}
	wg.Wait()

	return &models.BatchResponse{Count: len(results), Results: results}, nil
}

// HealthSnapshot describes the engine's dependencies for the health route.
type HealthSnapshot struct {
	Status    string                                  `json:"status"`
	Redis     RedisHealth                             `json:"redis"`
	Suppliers map[models.SupplierCode]*SupplierHealth `json:"suppliers"`
	Cache     cache.StatsSnapshot                     `json:"cache"`
}

// RedisHealth reports cache backend connectivity.
type RedisHealth struct {
	Connected bool `json:"connected"`
}

// SupplierHealth reports per-supplier wiring. Healthy reflects the outcome
// of the connector's most recent upstream call and is absent for connectors
// that do not track it. CacheStats is only present for SanMar, whose client
// is the in-memory bulk-file catalog.
type SupplierHealth struct {
	Configured bool                 `json:"configured"`
	Healthy    *bool                `json:"healthy,omitempty"`
	CacheStats *sanmar.CatalogStats `json:"cacheStats,omitempty"`
}

// Health reports connector registration, Redis connectivity and cache
// counters. Status degrades when no supplier at all is configured.
func (s *InventoryService) Health(ctx context.Context) *HealthSnapshot {
	snap := &HealthSnapshot{
		Redis:     RedisHealth{Connected: s.cache.Connected()},
		Suppliers: make(map[models.SupplierCode]*SupplierHealth, 3),
		Cache:     s.cache.Stats().Snapshot(),
	}

	configured := 0
	for _, code := range models.AllSuppliers() {
		health := &SupplierHealth{}
		if conn := s.router.Connector(code); conn != nil {
			health.Configured = true
			configured++
			if hc, ok := conn.(interface{ IsHealthy() bool }); ok {
				healthy := hc.IsHealthy()
				health.Healthy = &healthy
			}
			if sm, ok := conn.(*SanMarConnector); ok {
				stats := sm.Stats()
				health.CacheStats = &stats
			}
		}
		snap.Suppliers[code] = health
	}

	snap.Status = "healthy"
	if configured == 0 {
		snap.Status = "degraded"
	}
	return snap
}

// normalizeSKU validates and upper-cases input before any routing or I/O.
func normalizeSKU(sku string) (string, error) {
	trimmed := strings.TrimSpace(sku)
	if trimmed == "" {
		return "", InvalidSKUError(sku, "sku must not be empty")
	}
	if len(trimmed) > maxSKULength {
		return "", InvalidSKUError(trimmed, "sku too long")
	}
	if !validSKU.MatchString(trimmed) {
		return "", InvalidSKUError(trimmed, "sku contains invalid characters")
	}
	return strings.ToUpper(trimmed), nil
}

// buildCheckResponse flattens a unified product into the cacheable shape.
func buildCheckResponse(sku string, product *models.UnifiedProduct, ttl time.Duration) *models.InventoryCheckResponse {
	now := time.Now().UTC()

	inventory := make([]models.VariantInventory, 0, len(product.Variants))
	totalQty := 0
	for _, v := range product.Variants {
		inventory = append(inventory, models.VariantInventory{
			SKU:         v.SKU,
			Color:       v.Color,
			Size:        v.Size,
			Quantity:    v.Quantity,
			InStock:     v.InStock,
			StockStatus: v.StockStatus,
		})
		totalQty += v.Quantity
	}

	currency := product.Pricing.Currency
	if currency == "" {
		currency = "USD"
	}

	return &models.InventoryCheckResponse{
		SKU:          sku,
		Name:         product.Name,
		Supplier:     product.Supplier,
		Price:        product.Pricing.BasePrice,
		Currency:     currency,
		Inventory:    inventory,
		TotalQty:     totalQty,
		LastChecked:  now,
		Cached:       false,
		CacheExpires: now.Add(ttl),
	}
}

// batchError converts an error into the per-key batch shape.
func batchError(err error) *models.BatchLookupError {
	if le := AsLookupError(err); le != nil {
		return &models.BatchLookupError{
			Code:     le.Code,
			Message:  le.Message,
			Supplier: le.Supplier,
		}
	}
	return &models.BatchLookupError{Code: CodeSupplierError, Message: err.Error()}
}
