package service

import (
	"context"

	"github.com/printshop-os/inventory_api/internal/models"
	"github.com/printshop-os/inventory_api/internal/transform"
	"github.com/printshop-os/inventory_api/pkg/sanmar"
)

// SanMarConnector adapts the bulk-file catalog to the connector contract.
// SanMar has no live lookup API: all reads are served from the in-memory
// catalog that the sync worker populates from SFTP drops, so lookups are
// local and uniformly fast. Callers must not assume a network round trip.
type SanMarConnector struct {
	catalog *sanmar.Catalog
}

// NewSanMarConnector creates a SanMar connector over a shared catalog.
func NewSanMarConnector(catalog *sanmar.Catalog) *SanMarConnector {
	return &SanMarConnector{catalog: catalog}
}

// Code returns the supplier code.
func (c *SanMarConnector) Code() models.SupplierCode {
	return models.SupplierSanMar
}

// FetchProduct serves one style from the catalog. Before the first bulk
// sync completes the catalog is empty; that is reported as ErrNotSynced,
// not as a spurious "not found".
func (c *SanMarConnector) FetchProduct(ctx context.Context, styleID string) (*models.UnifiedProduct, error) {
	if !c.catalog.Loaded() {
		return nil, sanmar.ErrNotSynced
	}
	style := c.catalog.Style(styleID)
	if style == nil {
		return nil, nil
	}
	return transform.FromSanMar(style), nil
}

// FetchProducts returns up to limit styles from the catalog.
func (c *SanMarConnector) FetchProducts(ctx context.Context, limit int) ([]*models.UnifiedProduct, error) {
	if !c.catalog.Loaded() {
		return nil, sanmar.ErrNotSynced
	}

	styles := c.catalog.Styles(limit)
	products := make([]*models.UnifiedProduct, 0, len(styles))
	for i := range styles {
		products = append(products, transform.FromSanMar(&styles[i]))
	}
	return products, nil
}

// TestConnection reports whether the catalog has data to serve.
func (c *SanMarConnector) TestConnection(ctx context.Context) bool {
	return c.catalog.Loaded()
}

// Stats exposes catalog counters for health reporting.
func (c *SanMarConnector) Stats() sanmar.CatalogStats {
	return c.catalog.Stats()
}
