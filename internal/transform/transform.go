// Package transform holds the pure mappers from raw supplier payloads to
// the unified product shape. Nothing here performs I/O; the supplier
// adapters fetch, this package reshapes.
package transform

import (
	"html"
	"sort"
	"strings"

	"github.com/printshop-os/inventory_api/internal/models"
)

// CleanName decodes HTML entities suppliers leave in product names
// (&#174;, &amp; and friends) and collapses runs of whitespace.
func CleanName(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}

// NormalizePricing sorts price breaks ascending by quantity, drops
// non-positive tiers and guarantees a quantity-1 tier, defaulting it to
// the lowest-quantity tier's price. BasePrice is the quantity-1 price.
func NormalizePricing(breaks []models.PriceBreak, currency string) models.ProductPricing {
	if currency == "" {
		currency = "USD"
	}

	kept := make([]models.PriceBreak, 0, len(breaks))
	for _, b := range breaks {
		if b.Quantity > 0 && b.Price > 0 {
			kept = append(kept, b)
		}
	}
	if len(kept) == 0 {
		return models.ProductPricing{Currency: currency}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].Quantity < kept[j].Quantity })
	if kept[0].Quantity != 1 {
		kept = append([]models.PriceBreak{{Quantity: 1, Price: kept[0].Price}}, kept...)
	}

	return models.ProductPricing{
		BasePrice: kept[0].Price,
		Currency:  currency,
		Breaks:    kept,
	}
}
