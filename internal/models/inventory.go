package models

import (
	"strings"
	"time"
)

// VariantInventory is one per-variant row of an inventory check.
type VariantInventory struct {
	SKU         string      `json:"sku"`
	Color       string      `json:"color"`
	Size        string      `json:"size"`
	Quantity    int         `json:"quantity"`
	InStock     bool        `json:"inStock"`
	StockStatus StockStatus `json:"stockStatus"`
}

// InventoryCheckResponse is the unit of caching for inventory lookups.
// A record is created whole on a cache miss and replaced whole on refresh;
// cached records are never mutated in place.
type InventoryCheckResponse struct {
	SKU          string             `json:"sku"`
	Name         string             `json:"name"`
	Supplier     SupplierCode       `json:"supplier"`
	Price        float64            `json:"price"`
	Currency     string             `json:"currency"`
	Inventory    []VariantInventory `json:"inventory"`
	TotalQty     int                `json:"totalQty"`
	LastChecked  time.Time          `json:"lastChecked"`
	Cached       bool               `json:"cached"`
	CacheExpires time.Time          `json:"cacheExpires"`
}

// FilterByColor returns a copy of the response keeping only variants whose
// color contains the given string (case-insensitive), with TotalQty
// recomputed over the subset. The receiver is left untouched so a cached
// record can be filtered safely.
func (r *InventoryCheckResponse) FilterByColor(color string) *InventoryCheckResponse {
	out := *r
	needle := strings.ToLower(strings.TrimSpace(color))
	out.Inventory = make([]VariantInventory, 0, len(r.Inventory))
	out.TotalQty = 0
	for _, v := range r.Inventory {
		if !strings.Contains(strings.ToLower(v.Color), needle) {
			continue
		}
		out.Inventory = append(out.Inventory, v)
		out.TotalQty += v.Quantity
	}
	return &out
}

// BatchLookupError is the per-SKU failure shape inside a batch response.
type BatchLookupError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Supplier SupplierCode `json:"supplier,omitempty"`
}

// BatchResult holds either a successful check or a typed error, never both.
type BatchResult struct {
	Result *InventoryCheckResponse `json:"result,omitempty"`
	Error  *BatchLookupError       `json:"error,omitempty"`
}

// BatchResponse maps each original input SKU to its independent outcome.
type BatchResponse struct {
	Count   int                    `json:"count"`
	Results map[string]BatchResult `json:"results"`
}
