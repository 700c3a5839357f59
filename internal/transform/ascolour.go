package transform

import (
	"strconv"
	"strings"
	"time"

	"github.com/printshop-os/inventory_api/internal/models"
	"github.com/printshop-os/inventory_api/pkg/ascolour"
)

// FromASColour builds the unified product for an AS Colour style. The
// catalog payload carries colour and size lists only, so variants are the
// cross product. inv maps variant SKU to the result of its per-variant
// inventory call; an absent or nil entry means the fetch failed and that
// variant's stock is unknown rather than zero. pricing may be nil when the
// JWT-gated pricing call failed; the product then carries empty pricing
// but is still valid.
func FromASColour(style *ascolour.Style, inv map[string]*ascolour.InventoryItem, pricing *ascolour.StylePricing) *models.UnifiedProduct {
	p := &models.UnifiedProduct{
		SKU:         strings.ToUpper(strings.TrimSpace(style.StyleCode)),
		Name:        CleanName(style.StyleName),
		Brand:       "AS Colour",
		Description: style.Description,
		Category:    InferCategory(style.ProductType + " " + style.StyleName),
		Supplier:    models.SupplierASColour,
		Metadata: models.ProductMetadata{
			SupplierProductID: strconv.Itoa(style.WebID),
			LastSyncedAt:      time.Now().UTC(),
		},
	}
	for _, img := range style.Images {
		if img.URL != "" {
			p.Images = append(p.Images, img.URL)
		}
	}

	for _, colour := range style.Colours {
		for _, size := range style.Sizes {
			sku := VariantSKU(style.StyleCode, colour.Name, size)
			variant := models.ProductVariant{
				SKU:         sku,
				Color:       colour.Name,
				Size:        size,
				StockStatus: models.StockUnknown,
			}
			if item, ok := inv[sku]; ok && item != nil {
				variant.Quantity = item.QuantityAvailable
				variant.InStock = item.QuantityAvailable > 0
				variant.StockStatus = models.StockConfirmed
			}
			p.Variants = append(p.Variants, variant)
		}
	}

	if pricing != nil {
		p.Pricing = NormalizePricing([]models.PriceBreak{
			{Quantity: 1, Price: pricing.Wholesale},
		}, pricing.Currency)
	} else {
		p.Pricing = models.ProductPricing{Currency: "USD"}
	}

	p.RecomputeAvailability()
	return p
}
