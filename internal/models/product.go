package models

import "time"

// Category enumerates the normalized product categories shared with the CMS.
type Category string

const (
	CategoryTShirts     Category = "t-shirts"
	CategoryPolos       Category = "polos"
	CategoryHoodies     Category = "hoodies"
	CategorySweatshirts Category = "sweatshirts"
	CategoryHeadwear    Category = "headwear"
	CategoryBags        Category = "bags"
	CategoryOuterwear   Category = "outerwear"
	CategoryAthletic    Category = "athletic"
	CategoryWorkwear    Category = "workwear"
	CategoryYouth       Category = "youth"
	CategoryOther       Category = "other"
)

// StockStatus distinguishes a confirmed quantity (including a confirmed zero)
// from a quantity that could not be fetched from the supplier.
type StockStatus string

const (
	StockConfirmed StockStatus = "confirmed"
	StockUnknown   StockStatus = "unknown"
)

// UnifiedProduct is the canonical product record every supplier payload is
// normalized into. Supplier is set once by routing and never rewritten.
type UnifiedProduct struct {
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	Brand        string           `json:"brand"`
	Description  string           `json:"description,omitempty"`
	Category     Category         `json:"category"`
	Supplier     SupplierCode     `json:"supplier"`
	Variants     []ProductVariant `json:"variants"`
	Pricing      ProductPricing   `json:"pricing"`
	Images       []string         `json:"images,omitempty"`
	Availability Availability     `json:"availability"`
	Metadata     ProductMetadata  `json:"metadata"`
}

// ProductVariant is a single color/size combination of a style.
type ProductVariant struct {
	SKU         string      `json:"sku"`
	Color       string      `json:"color"`
	Size        string      `json:"size"`
	Quantity    int         `json:"quantity"`
	InStock     bool        `json:"inStock"`
	StockStatus StockStatus `json:"stockStatus"`
	Price       *float64    `json:"price,omitempty"`
}

// ProductPricing carries the base unit price plus quantity price breaks
// sorted ascending by quantity. A quantity-1 tier is always present.
type ProductPricing struct {
	BasePrice float64      `json:"basePrice"`
	Currency  string       `json:"currency"`
	Breaks    []PriceBreak `json:"breaks,omitempty"`
}

// PriceBreak is a per-unit price at a minimum order quantity.
type PriceBreak struct {
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Availability is derived from variants and recomputed on every update,
// never stored or cached independently.
type Availability struct {
	InStock       bool `json:"inStock"`
	TotalQuantity int  `json:"totalQuantity"`
}

// ProductMetadata records supplier provenance for a normalized product.
type ProductMetadata struct {
	SupplierProductID string    `json:"supplierProductId,omitempty"`
	LastSyncedAt      time.Time `json:"lastSyncedAt"`
}

// RecomputeAvailability rebuilds the derived availability block from the
// current variants: inStock iff any variant is in stock, totalQuantity is
// the sum over all variants.
func (p *UnifiedProduct) RecomputeAvailability() {
	avail := Availability{}
	for _, v := range p.Variants {
		avail.TotalQuantity += v.Quantity
		if v.InStock {
			avail.InStock = true
		}
	}
	p.Availability = avail
}

// Variant returns the variant with the given SKU, or nil.
func (p *UnifiedProduct) Variant(sku string) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].SKU == sku {
			return &p.Variants[i]
		}
	}
	return nil
}
