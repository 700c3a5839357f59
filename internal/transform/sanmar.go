package transform

import (
	"time"

	"github.com/printshop-os/inventory_api/internal/models"
	"github.com/printshop-os/inventory_api/pkg/sanmar"
)

// Dozen and case pack quantities for the bulk-file price columns.
const (
	sanmarDozenQty = 12
	sanmarCaseQty  = 72
)

// FromSanMar maps a bulk-file catalog style onto the unified shape. The
// bulk files carry explicit per-SKU rows, so no cross product is needed;
// variant SKUs are still rebuilt with the shared constructor so bulk rows
// and lookups agree. All quantities come from synced files and count as
// confirmed.
func FromSanMar(style *sanmar.CatalogStyle) *models.UnifiedProduct {
	p := &models.UnifiedProduct{
		SKU:         style.StyleNumber,
		Name:        CleanName(style.Title),
		Brand:       style.Brand,
		Description: style.Description,
		Category:    InferCategory(style.Category + " " + style.Subcategory + " " + style.Title),
		Supplier:    models.SupplierSanMar,
		Images:      append([]string(nil), style.Images...),
		Metadata: models.ProductMetadata{
			SupplierProductID: style.StyleNumber,
			LastSyncedAt:      time.Now().UTC(),
		},
	}

	for _, v := range style.Variants {
		p.Variants = append(p.Variants, models.ProductVariant{
			SKU:         VariantSKU(v.StyleNumber, v.Color, v.Size),
			Color:       v.Color,
			Size:        v.Size,
			Quantity:    v.Quantity,
			InStock:     v.Quantity > 0,
			StockStatus: models.StockConfirmed,
		})
	}

	p.Pricing = NormalizePricing([]models.PriceBreak{
		{Quantity: 1, Price: style.PiecePrice},
		{Quantity: sanmarDozenQty, Price: style.DozenPrice},
		{Quantity: sanmarCaseQty, Price: style.CasePrice},
	}, "USD")

	p.RecomputeAvailability()
	return p
}
