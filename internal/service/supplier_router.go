package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/printshop-os/inventory_api/internal/models"
)

// SupplierConnector is the uniform contract every supplier client is
// adapted to, regardless of the underlying protocol (live REST calls for
// AS Colour and S&S, bulk-file catalog reads for SanMar). FetchProduct
// returns (nil, nil) when the style does not exist upstream.
type SupplierConnector interface {
	Code() models.SupplierCode
	FetchProducts(ctx context.Context, limit int) ([]*models.UnifiedProduct, error)
	FetchProduct(ctx context.Context, styleID string) (*models.UnifiedProduct, error)
	TestConnection(ctx context.Context) bool
}

var (
	asColourNumeric = regexp.MustCompile(`^\d{4,5}$`)
	sanmarAlnum     = regexp.MustCompile(`^[A-Z]{1,3}\d+[A-Z]?$`)
	pureNumeric     = regexp.MustCompile(`^\d+$`)
)

// DetectSupplier decides which supplier owns a SKU from the string alone.
// Pure and deterministic; no I/O. First match wins:
//
//  1. Explicit prefixes: AC-/AC, SS-, SM-.
//  2. Style-code heuristics: 4-5 digit numerics are AS Colour style codes;
//     letters-then-digits is the SanMar convention; any other pure numeric
//     is S&S.
//  3. Everything else defaults to SanMar (largest catalog).
//
// A 4-5 digit numeric also matches the S&S pure-numeric rule; AS Colour
// wins because its check runs first. That tie-break is deliberate and
// relied upon by callers.
func DetectSupplier(sku string) models.SupplierCode {
	s := strings.ToUpper(strings.TrimSpace(sku))

	switch {
	case strings.HasPrefix(s, "AC-"), strings.HasPrefix(s, "AC"):
		return models.SupplierASColour
	case strings.HasPrefix(s, "SS-"):
		return models.SupplierSSActivewear
	case strings.HasPrefix(s, "SM-"):
		return models.SupplierSanMar
	}

	switch {
	case asColourNumeric.MatchString(s):
		return models.SupplierASColour
	case sanmarAlnum.MatchString(s):
		return models.SupplierSanMar
	case pureNumeric.MatchString(s):
		return models.SupplierSSActivewear
	}

	return models.SupplierSanMar
}

// StripRoutingPrefix removes an explicit supplier prefix (AC-, SS-, SM-)
// before the bare style code is sent to the supplier client. Heuristic
// matches pass through unchanged.
func StripRoutingPrefix(sku string) string {
	s := strings.ToUpper(strings.TrimSpace(sku))
	for _, prefix := range []string{"AC-", "SS-", "SM-"} {
		if strings.HasPrefix(s, prefix) && len(s) > len(prefix) {
			return s[len(prefix):]
		}
	}
	return s
}

// SupplierRouter owns the connector registry. Registration happens once at
// startup; unconfigured suppliers simply never register, and lookups for
// them surface as SUPPLIER_ERROR rather than NOT_FOUND.
type SupplierRouter struct {
	connectors map[models.SupplierCode]SupplierConnector
}

// NewSupplierRouter creates an empty router.
func NewSupplierRouter() *SupplierRouter {
	return &SupplierRouter{
		connectors: make(map[models.SupplierCode]SupplierConnector),
	}
}

// Register adds a connector to the router.
func (r *SupplierRouter) Register(conn SupplierConnector) {
	r.connectors[conn.Code()] = conn
}

// Connector returns the client for a supplier, or nil when unregistered.
func (r *SupplierRouter) Connector(code models.SupplierCode) SupplierConnector {
	return r.connectors[code]
}

// Connectors returns a copy of the registry map.
func (r *SupplierRouter) Connectors() map[models.SupplierCode]SupplierConnector {
	result := make(map[models.SupplierCode]SupplierConnector, len(r.connectors))
	for k, v := range r.connectors {
		result[k] = v
	}
	return result
}

// Route resolves a SKU to its owning supplier and that supplier's
// connector (nil when the supplier is not configured).
func (r *SupplierRouter) Route(sku string) (models.SupplierCode, SupplierConnector) {
	code := DetectSupplier(sku)
	return code, r.connectors[code]
}
