package models

import "time"

// CatalogProduct is the products-collection document in the CMS, read from
// and written through the document API. DocumentID and UsageCount are
// CMS-managed: writes carry the DocumentID only in the URL and preserve the
// existing UsageCount rather than inventing one.
type CatalogProduct struct {
	DocumentID        string       `json:"documentId,omitempty"`
	SKU               string       `json:"sku"`
	Name              string       `json:"name"`
	Brand             string       `json:"brand,omitempty"`
	Description       string       `json:"description,omitempty"`
	Category          string       `json:"category,omitempty"`
	Supplier          SupplierCode `json:"supplier,omitempty"`
	BasePrice         float64      `json:"basePrice,omitempty"`
	Colors            []string     `json:"colors,omitempty"`
	Tags              []string     `json:"tags,omitempty"`
	Images            []string     `json:"images,omitempty"`
	VariantCount      int          `json:"variantCount,omitempty"`
	TotalInventory    int          `json:"totalInventory,omitempty"`
	IsActive          bool         `json:"isActive"`
	IsTopProduct      bool         `json:"isTopProduct"`
	IsCurated         bool         `json:"isCurated"`
	OrderCount        int          `json:"orderCount,omitempty"`
	TotalUnitsOrdered int          `json:"totalUnitsOrdered,omitempty"`
	TopProductScore   float64      `json:"topProductScore,omitempty"`
	Priority          int          `json:"priority,omitempty"`
	UsageCount        int          `json:"usageCount,omitempty"`
	LastOrderedAt     *time.Time   `json:"lastOrderedAt,omitempty"`
	LastSyncedAt      *time.Time   `json:"lastSyncedAt,omitempty"`
}
