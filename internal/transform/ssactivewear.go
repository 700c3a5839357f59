package transform

import (
	"strings"
	"time"

	"github.com/printshop-os/inventory_api/internal/models"
	"github.com/printshop-os/inventory_api/pkg/ssactivewear"
)

// FromSSActivewear builds the unified product from the single S&S payload.
// Variants are the colors x sizes cross product with quantities joined
// from the embedded stock rows; a combination without a stock row is a
// confirmed zero, since the payload is complete.
func FromSSActivewear(style *ssactivewear.Style) *models.UnifiedProduct {
	stock := make(map[string]int, len(style.Inventory))
	for _, row := range style.Inventory {
		stock[stockKey(row.ColorName, row.SizeName)] = row.Qty
	}

	p := &models.UnifiedProduct{
		SKU:         strings.ToUpper(strings.TrimSpace(style.StyleID)),
		Name:        CleanName(style.StyleName),
		Brand:       style.BrandName,
		Description: style.Description,
		Category:    InferCategory(style.CategoryName + " " + style.StyleName),
		Supplier:    models.SupplierSSActivewear,
		Images:      append([]string(nil), style.Images...),
		Metadata: models.ProductMetadata{
			SupplierProductID: style.StyleID,
			LastSyncedAt:      time.Now().UTC(),
		},
	}

	for _, color := range style.Colors {
		for _, size := range style.Sizes {
			qty := stock[stockKey(color.ColorName, size)]
			p.Variants = append(p.Variants, models.ProductVariant{
				SKU:         VariantSKU(style.StyleID, color.ColorName, size),
				Color:       color.ColorName,
				Size:        size,
				Quantity:    qty,
				InStock:     qty > 0,
				StockStatus: models.StockConfirmed,
			})
		}
	}

	breaks := make([]models.PriceBreak, 0, len(style.Pricing))
	for _, tier := range style.Pricing {
		breaks = append(breaks, models.PriceBreak{Quantity: tier.Quantity, Price: tier.Price})
	}
	p.Pricing = NormalizePricing(breaks, "USD")

	p.RecomputeAvailability()
	return p
}

func stockKey(color, size string) string {
	return strings.ToLower(strings.TrimSpace(color)) + "|" + strings.ToLower(strings.TrimSpace(size))
}
