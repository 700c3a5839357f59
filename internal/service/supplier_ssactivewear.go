package service

import (
	"context"
	"sync"

	"github.com/printshop-os/inventory_api/internal/models"
	"github.com/printshop-os/inventory_api/internal/transform"
	"github.com/printshop-os/inventory_api/pkg/ssactivewear"
)

// SSActivewearConnector adapts the S&S Activewear REST client. One style
// payload embeds colors, sizes, pricing and stock, so a lookup is a single
// round trip.
type SSActivewearConnector struct {
	client *ssactivewear.Client

	healthy  bool
	healthMu sync.RWMutex
}

// NewSSActivewearConnector creates an S&S Activewear connector.
func NewSSActivewearConnector(client *ssactivewear.Client) *SSActivewearConnector {
	return &SSActivewearConnector{client: client, healthy: true}
}

// Code returns the supplier code.
func (c *SSActivewearConnector) Code() models.SupplierCode {
	return models.SupplierSSActivewear
}

// FetchProduct retrieves one style. Returns (nil, nil) when absent.
func (c *SSActivewearConnector) FetchProduct(ctx context.Context, styleID string) (*models.UnifiedProduct, error) {
	style, err := c.client.GetStyle(ctx, styleID)
	if err != nil {
		c.markUnhealthy()
		return nil, err
	}
	c.markHealthy()
	if style == nil {
		return nil, nil
	}
	return transform.FromSSActivewear(style), nil
}

// FetchProducts retrieves product-list pages up to limit styles.
func (c *SSActivewearConnector) FetchProducts(ctx context.Context, limit int) ([]*models.UnifiedProduct, error) {
	const perPage = 50

	products := make([]*models.UnifiedProduct, 0, limit)
	for page := 1; limit <= 0 || len(products) < limit; page++ {
		result, err := c.client.GetStyles(ctx, page, perPage)
		if err != nil {
			c.markUnhealthy()
			return nil, err
		}
		c.markHealthy()
		if len(result.Products) == 0 {
			break
		}
		for i := range result.Products {
			products = append(products, transform.FromSSActivewear(&result.Products[i]))
			if limit > 0 && len(products) >= limit {
				break
			}
		}
		if !result.HasMore {
			break
		}
	}
	return products, nil
}

// TestConnection pings the categories endpoint.
func (c *SSActivewearConnector) TestConnection(ctx context.Context) bool {
	ok := c.client.Ping(ctx)
	if ok {
		c.markHealthy()
	} else {
		c.markUnhealthy()
	}
	return ok
}

// IsHealthy reports the result of the most recent upstream interaction.
func (c *SSActivewearConnector) IsHealthy() bool {
	c.healthMu.RLock()
	defer c.healthMu.RUnlock()
	return c.healthy
}

func (c *SSActivewearConnector) markHealthy() {
	c.healthMu.Lock()
	c.healthy = true
	c.healthMu.Unlock()
}

func (c *SSActivewearConnector) markUnhealthy() {
	c.healthMu.Lock()
	c.healthy = false
	c.healthMu.Unlock()
}
