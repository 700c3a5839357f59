package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/printshop-os/inventory_api/internal/cache"
	"github.com/printshop-os/inventory_api/internal/models"
	"github.com/printshop-os/inventory_api/internal/service"
)

func init() { gin.SetMode(gin.TestMode) }

// fakeConnector serves scripted products, keyed by the style ID the
// connector receives after prefix stripping.
type fakeConnector struct {
	code     models.SupplierCode
	products map[string]*models.UnifiedProduct
}

func (f *fakeConnector) Code() models.SupplierCode { return f.code }

func (f *fakeConnector) FetchProduct(ctx context.Context, styleID string) (*models.UnifiedProduct, error) {
	return f.products[styleID], nil
}

func (f *fakeConnector) FetchProducts(ctx context.Context, limit int) ([]*models.UnifiedProduct, error) {
	out := make([]*models.UnifiedProduct, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeConnector) TestConnection(ctx context.Context) bool { return true }

func testProduct(styleID string, supplier models.SupplierCode) *models.UnifiedProduct {
	p := &models.UnifiedProduct{
		SKU:      styleID,
		Name:     "Test Style " + styleID,
		Brand:    "Gildan",
		Category: models.CategoryTShirts,
		Supplier: supplier,
		Variants: []models.ProductVariant{
			{SKU: styleID + "-BLACK-M", Color: "Black", Size: "M", Quantity: 40, InStock: true, StockStatus: models.StockConfirmed},
			{SKU: styleID + "-NAVY-L", Color: "Navy", Size: "L", Quantity: 12, InStock: true, StockStatus: models.StockConfirmed},
		},
		Pricing: models.ProductPricing{BasePrice: 3.2, Currency: "USD"},
	}
	p.RecomputeAvailability()
	return p
}

func newInventoryRouter(t *testing.T, connectors ...service.SupplierConnector) *gin.Engine {
	t.Helper()

	mr := miniredis.RunT(t)
	rc := cache.NewRedisClientFromBackend(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	invCache := cache.NewInventoryCache(rc, cache.NewStats(0.05), 0)

	supplierRouter := service.NewSupplierRouter()
	for _, conn := range connectors {
		supplierRouter.Register(conn)
	}

	h := NewInventoryHandler(service.NewInventoryService(supplierRouter, invCache))
	r := gin.New()
	r.GET("/inventory/check/:sku", h.CheckInventory)
	r.GET("/inventory/check/:sku/color/:color", h.CheckInventoryByColor)
	r.POST("/inventory/batch", h.BatchCheck)
	r.GET("/inventory/health", h.Health)
	r.GET("/inventory/stats", h.Stats)
	r.POST("/inventory/stats/reset", h.ResetStats)
	r.DELETE("/inventory/cache/:sku", h.InvalidateSKU)
	r.DELETE("/inventory/cache", h.InvalidateCache)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sanmarConnector(styles ...string) *fakeConnector {
	products := make(map[string]*models.UnifiedProduct, len(styles))
	for _, s := range styles {
		products[s] = testProduct(s, models.SupplierSanMar)
	}
	return &fakeConnector{code: models.SupplierSanMar, products: products}
}

func TestCheckInventoryEndpoint(t *testing.T) {
	r := newInventoryRouter(t, sanmarConnector("PC54"))

	w := doRequest(r, http.MethodGet, "/inventory/check/SM-PC54", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var resp models.InventoryCheckResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.SKU != "SM-PC54" {
		t.Errorf("sku = %q, want SM-PC54", resp.SKU)
	}
	if resp.Supplier != models.SupplierSanMar {
		t.Errorf("supplier = %q, want sanmar", resp.Supplier)
	}
	if resp.TotalQty != 52 {
		t.Errorf("totalQty = %d, want 52", resp.TotalQty)
	}
	if resp.Cached {
		t.Error("first lookup should not be cached")
	}

	w = doRequest(r, http.MethodGet, "/inventory/check/SM-PC54", "")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding second response: %v", err)
	}
	if !resp.Cached {
		t.Error("second lookup should be served from cache")
	}
}

func TestCheckInventoryNotFound(t *testing.T) {
	r := newInventoryRouter(t, sanmarConnector("PC54"))

	w := doRequest(r, http.MethodGet, "/inventory/check/SM-XX999", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body["code"] != service.CodeNotFound {
		t.Errorf("code = %v, want NOT_FOUND", body["code"])
	}
	if body["sku"] != "SM-XX999" {
		t.Errorf("sku = %v, want SM-XX999", body["sku"])
	}
	if body["supplier"] != string(models.SupplierSanMar) {
		t.Errorf("supplier = %v, want sanmar", body["supplier"])
	}
}

func TestCheckInventoryInvalidSKU(t *testing.T) {
	r := newInventoryRouter(t, sanmarConnector("PC54"))

	w := doRequest(r, http.MethodGet, "/inventory/check/!!bad!!", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body["code"] != service.CodeInvalidSKU {
		t.Errorf("code = %v, want INVALID_SKU", body["code"])
	}
}

func TestCheckInventoryUnconfiguredSupplier(t *testing.T) {
	r := newInventoryRouter(t, sanmarConnector("PC54"))

	w := doRequest(r, http.MethodGet, "/inventory/check/AC-5001", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body["code"] != service.CodeSupplierError {
		t.Errorf("code = %v, want SUPPLIER_ERROR", body["code"])
	}
	if body["supplier"] != string(models.SupplierASColour) {
		t.Errorf("supplier = %v, want ascolour", body["supplier"])
	}
}

func TestCheckInventoryByColorEndpoint(t *testing.T) {
	r := newInventoryRouter(t, sanmarConnector("PC54"))

	w := doRequest(r, http.MethodGet, "/inventory/check/SM-PC54/color/black", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var resp models.InventoryCheckResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Inventory) != 1 {
		t.Fatalf("variants = %d, want 1", len(resp.Inventory))
	}
	if resp.Inventory[0].Color != "Black" || resp.TotalQty != 40 {
		t.Errorf("filtered to %s qty %d, want Black qty 40", resp.Inventory[0].Color, resp.TotalQty)
	}
}

func TestBatchEndpointMixedResults(t *testing.T) {
	r := newInventoryRouter(t, sanmarConnector("PC54"))

	w := doRequest(r, http.MethodPost, "/inventory/batch", `{"skus":["SM-PC54","AC-5001"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var resp models.BatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("count = %d, want 2", resp.Count)
	}
	if entry := resp.Results["SM-PC54"]; entry.Result == nil || entry.Result.TotalQty != 52 {
		t.Errorf("SM-PC54 entry = %+v, want successful result", entry)
	}
	if entry := resp.Results["AC-5001"]; entry.Error == nil || entry.Error.Code != service.CodeSupplierError {
		t.Errorf("AC-5001 entry = %+v, want SUPPLIER_ERROR", entry)
	}
}

func TestBatchEndpointRejectsOversized(t *testing.T) {
	r := newInventoryRouter(t, sanmarConnector("PC54"))

	skus := make([]string, 51)
	for i := range skus {
		skus[i] = fmt.Sprintf("SM-PC%d", i)
	}
	body, _ := json.Marshal(map[string]any{"skus": skus})

	w := doRequest(r, http.MethodPost, "/inventory/batch", string(body))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestBatchEndpointRejectsBadBody(t *testing.T) {
	r := newInventoryRouter(t, sanmarConnector("PC54"))

	for _, body := range []string{`{"skus":"not-a-list"}`, `{"skus":[]}`} {
		w := doRequest(r, http.MethodPost, "/inventory/batch", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := newInventoryRouter(t, sanmarConnector("PC54"))

	w := doRequest(r, http.MethodGet, "/inventory/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var snap service.HealthSnapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decoding health: %v", err)
	}
	if snap.Status != "healthy" {
		t.Errorf("status = %q, want healthy", snap.Status)
	}
	if !snap.Redis.Connected {
		t.Error("redis should report connected")
	}
	if sup := snap.Suppliers[models.SupplierSanMar]; sup == nil || !sup.Configured {
		t.Error("sanmar should report configured")
	}
	if sup := snap.Suppliers[models.SupplierASColour]; sup == nil || sup.Configured {
		t.Error("ascolour should report unconfigured")
	}
}

func TestStatsEndpointAndReset(t *testing.T) {
	r := newInventoryRouter(t, sanmarConnector("PC54"))

	doRequest(r, http.MethodGet, "/inventory/check/SM-PC54", "")
	doRequest(r, http.MethodGet, "/inventory/check/SM-PC54", "")

	w := doRequest(r, http.MethodGet, "/inventory/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var stats struct {
		Cache      cache.StatsSnapshot `json:"cache"`
		TTLSeconds int                 `json:"ttlSeconds"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.Cache.Hits != 1 || stats.Cache.Misses != 1 || stats.Cache.APICalls != 1 {
		t.Errorf("counters = %+v, want 1 hit / 1 miss / 1 api call", stats.Cache)
	}
	if stats.TTLSeconds != int(cache.DefaultInventoryTTL.Seconds()) {
		t.Errorf("ttlSeconds = %d, want %d", stats.TTLSeconds, int(cache.DefaultInventoryTTL.Seconds()))
	}

	if w := doRequest(r, http.MethodPost, "/inventory/stats/reset", ""); w.Code != http.StatusOK {
		t.Fatalf("reset status = %d, want 200", w.Code)
	}

	w = doRequest(r, http.MethodGet, "/inventory/stats", "")
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decoding stats after reset: %v", err)
	}
	if stats.Cache.Hits != 0 || stats.Cache.Misses != 0 {
		t.Errorf("counters after reset = %+v, want zeros", stats.Cache)
	}
}

func TestInvalidateSKUEndpoint(t *testing.T) {
	r := newInventoryRouter(t, sanmarConnector("PC54"))

	doRequest(r, http.MethodGet, "/inventory/check/SM-PC54", "")

	w := doRequest(r, http.MethodDelete, "/inventory/cache/SM-PC54", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["removed"] != float64(1) {
		t.Errorf("removed = %v, want 1", body["removed"])
	}

	var resp models.InventoryCheckResponse
	w = doRequest(r, http.MethodGet, "/inventory/check/SM-PC54", "")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Cached {
		t.Error("lookup after invalidation should go back to the supplier")
	}
}

func TestInvalidateCachePattern(t *testing.T) {
	r := newInventoryRouter(t, sanmarConnector("PC54", "PC61"))

	doRequest(r, http.MethodGet, "/inventory/check/SM-PC54", "")
	doRequest(r, http.MethodGet, "/inventory/check/SM-PC61", "")

	if w := doRequest(r, http.MethodDelete, "/inventory/cache", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("missing pattern: status = %d, want 400", w.Code)
	}
	if w := doRequest(r, http.MethodDelete, "/inventory/cache?pattern=alibaba:*", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown supplier pattern: status = %d, want 400", w.Code)
	}

	w := doRequest(r, http.MethodDelete, "/inventory/cache?pattern=sanmar:*", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["removed"] != float64(2) {
		t.Errorf("removed = %v, want 2", body["removed"])
	}
}
