package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/printshop-os/inventory_api/internal/models"
	"github.com/printshop-os/inventory_api/internal/transform"
	"github.com/printshop-os/inventory_api/pkg/ascolour"
)

// Per-variant inventory calls run in small concurrent groups; AS Colour
// styles can carry well over a hundred colour/size combinations.
const asColourInventoryConcurrency = 5

// ASColourConnector adapts the AS Colour REST client to the connector
// contract. The catalog payload has no quantities or prices: inventory
// needs one secondary call per variant and pricing one JWT-gated call per
// style. Both are best-effort; their failure degrades fields on the
// product instead of failing the lookup.
type ASColourConnector struct {
	client *ascolour.Client

	healthy  bool
	healthMu sync.RWMutex
}

// NewASColourConnector creates an AS Colour connector.
func NewASColourConnector(client *ascolour.Client) *ASColourConnector {
	return &ASColourConnector{client: client, healthy: true}
}

// Code returns the supplier code.
func (c *ASColourConnector) Code() models.SupplierCode {
	return models.SupplierASColour
}

// FetchProduct retrieves one style with per-variant inventory and pricing.
// Returns (nil, nil) when the style does not exist.
func (c *ASColourConnector) FetchProduct(ctx context.Context, styleID string) (*models.UnifiedProduct, error) {
	style, err := c.client.GetStyle(ctx, styleID)
	if err != nil {
		c.markUnhealthy()
		return nil, err
	}
	c.markHealthy()
	if style == nil {
		return nil, nil
	}

	inv := c.fetchVariantInventory(ctx, style)

	pricing, err := c.client.GetStylePricing(ctx, style.StyleCode)
	if err != nil {
		// Unpriced beats failed: the product is still served.
		log.Debug().Err(err).Str("style", style.StyleCode).Msg("AS Colour pricing unavailable")
		pricing = nil
	}

	return transform.FromASColour(style, inv, pricing), nil
}

// fetchVariantInventory issues the secondary inventory call for every
// colour/size combination in bounded concurrent groups. A failed call
// leaves its SKU out of the map, which the transformer records as
// stockStatus=unknown rather than a confirmed zero.
func (c *ASColourConnector) fetchVariantInventory(ctx context.Context, style *ascolour.Style) map[string]*ascolour.InventoryItem {
	skus := make([]string, 0, len(style.Colours)*len(style.Sizes))
	for _, colour := range style.Colours {
		for _, size := range style.Sizes {
			skus = append(skus, transform.VariantSKU(style.StyleCode, colour.Name, size))
		}
	}

	inv := make(map[string]*ascolour.InventoryItem, len(skus))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, asColourInventoryConcurrency)

	for _, sku := range skus {
		wg.Add(1)
		sem <- struct{}{}
		go func(sku string) {
			defer wg.Done()
			defer func() { <-sem }()

			item, err := c.client.GetInventoryItem(ctx, sku)
			if err != nil {
				log.Debug().Err(err).Str("sku", sku).Msg("AS Colour variant inventory fetch failed")
				return
			}
			if item == nil {
				return
			}
			mu.Lock()
			inv[sku] = item
			mu.Unlock()
		}(sku)
	}
	wg.Wait()

	return inv
}

// FetchProducts retrieves catalog pages up to limit styles. Bulk listings
// skip the per-variant inventory and pricing calls; per-SKU lookups do the
// full enrichment.
func (c *ASColourConnector) FetchProducts(ctx context.Context, limit int) ([]*models.UnifiedProduct, error) {
	const pageSize = 50

	products := make([]*models.UnifiedProduct, 0, limit)
	for page := 1; limit <= 0 || len(products) < limit; page++ {
		styles, err := c.client.GetStyles(ctx, page, pageSize)
		if err != nil {
			c.markUnhealthy()
			return nil, err
		}
		c.markHealthy()
		if len(styles) == 0 {
			break
		}
		for i := range styles {
			products = append(products, transform.FromASColour(&styles[i], nil, nil))
			if limit > 0 && len(products) >= limit {
				break
			}
		}
		if len(styles) < pageSize {
			break
		}
	}
	return products, nil
}

// TestConnection pings the cheapest catalog endpoint.
func (c *ASColourConnector) TestConnection(ctx context.Context) bool {
	ok := c.client.Ping(ctx)
	if ok {
		c.markHealthy()
	} else {
		c.markUnhealthy()
	}
	return ok
}

// IsHealthy reports the result of the most recent upstream interaction.
func (c *ASColourConnector) IsHealthy() bool {
	c.healthMu.RLock()
	defer c.healthMu.RUnlock()
	return c.healthy
}

func (c *ASColourConnector) markHealthy() {
	c.healthMu.Lock()
	c.healthy = true
	c.healthMu.Unlock()
}

func (c *ASColourConnector) markUnhealthy() {
	c.healthMu.Lock()
	c.healthy = false
	c.healthMu.Unlock()
}
