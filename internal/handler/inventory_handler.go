package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/printshop-os/inventory_api/internal/models"
	"github.com/printshop-os/inventory_api/internal/service"
)

// InventoryHandler serves the inventory lookup endpoints. These routes keep
// the flat response shapes the print-shop UI consumes directly, without the
// standard envelope.
type InventoryHandler struct {
	inventory *service.InventoryService
}

// NewInventoryHandler constructs an InventoryHandler.
func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// CheckInventory handles GET /inventory/check/:sku.
func (h *InventoryHandler) CheckInventory(c *gin.Context) {
	sku := c.Param("sku")
	refresh := c.Query("refresh") == "true"

	resp, err := h.inventory.CheckInventory(c.Request.Context(), sku, refresh)
	if err != nil {
		writeLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CheckInventoryByColor handles GET /inventory/check/:sku/color/:color.
func (h *InventoryHandler) CheckInventoryByColor(c *gin.Context) {
	resp, err := h.inventory.CheckInventoryByColor(c.Request.Context(), c.Param("sku"), c.Param("color"))
	if err != nil {
		writeLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type batchRequest struct {
	SKUs []string `json:"skus"`
}

// BatchCheck handles POST /inventory/batch. A failed lookup for one SKU
// never fails the batch; per-key errors ride in the results map.
func (h *InventoryHandler) BatchCheck(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := h.inventory.BatchCheck(c.Request.Context(), req.SKUs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Health handles GET /inventory/health.
func (h *InventoryHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.inventory.Health(c.Request.Context()))
}

// Stats handles GET /inventory/stats.
func (h *InventoryHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cache":      h.inventory.Cache().Stats().Snapshot(),
		"ttlSeconds": int(h.inventory.Cache().TTL().Seconds()),
	})
}

// ResetStats handles POST /inventory/stats/reset.
func (h *InventoryHandler) ResetStats(c *gin.Context) {
	h.inventory.Cache().Stats().Reset()
	c.JSON(http.StatusOK, gin.H{"reset": true})
}

// InvalidateSKU handles DELETE /inventory/cache/:sku.
func (h *InventoryHandler) InvalidateSKU(c *gin.Context) {
	removed := h.inventory.Cache().InvalidateSKU(c.Request.Context(), c.Param("sku"))
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// InvalidateCache handles DELETE /inventory/cache?pattern=. A pattern that
// scopes to a supplier segment must name a known supplier; a typo here would
// otherwise look like a successful no-op removal.
func (h *InventoryHandler) InvalidateCache(c *gin.Context) {
	pattern := c.Query("pattern")
	if pattern == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pattern query parameter is required"})
		return
	}
	if supplier, _, ok := strings.Cut(pattern, ":"); ok && supplier != "*" && !models.SupplierCode(supplier).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown supplier in pattern", "pattern": pattern})
		return
	}
	removed := h.inventory.Cache().InvalidatePattern(c.Request.Context(), pattern)
	c.JSON(http.StatusOK, gin.H{"pattern": pattern, "removed": removed})
}

// writeLookupError maps a query-engine error onto the flat error contract.
// INVALID_SKU is the caller's fault (400); NOT_FOUND and SUPPLIER_ERROR both
// surface as 404 with the code field telling them apart.
func writeLookupError(c *gin.Context, err error) {
	le := service.AsLookupError(err)
	if le == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	body := gin.H{
		"error": le.Message,
		"sku":   le.SKU,
		"code":  le.Code,
	}
	if le.Supplier != "" {
		body["supplier"] = le.Supplier
	}

	status := http.StatusNotFound
	if le.Code == service.CodeInvalidSKU {
		status = http.StatusBadRequest
	}
	c.JSON(status, body)
}
