package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/printshop-os/inventory_api/internal/models"
	"github.com/printshop-os/inventory_api/pkg/strapi"
)

// fakeCMS is an in-memory stand-in for the document API: find by SKU,
// create, update. It records every write for assertions.
type fakeCMS struct {
	mu            sync.Mutex
	docs          map[string]models.CatalogProduct
	creates       []map[string]any
	updates       map[string][]map[string]any
	failCreateSKU string
	requests      int

	srv *httptest.Server
}

func newFakeCMS(t *testing.T) *fakeCMS {
	f := &fakeCMS{
		docs:    make(map[string]models.CatalogProduct),
		updates: make(map[string][]map[string]any),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeCMS) client() *strapi.Client {
	return strapi.NewClient(strapi.Config{BaseURL: f.srv.URL})
}

func (f *fakeCMS) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/products":
		var rows []models.CatalogProduct
		if sku := r.URL.Query().Get("filters[sku][$eq]"); sku != "" {
			if doc, ok := f.docs[sku]; ok {
				rows = append(rows, doc)
			}
		} else {
			for _, doc := range f.docs {
				rows = append(rows, doc)
			}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": rows,
			"meta": map[string]any{"pagination": map[string]any{
				"page": 1, "pageSize": len(rows), "pageCount": 1, "total": len(rows),
			}},
		})

	case r.Method == http.MethodPost && r.URL.Path == "/api/products":
		var req struct {
			Data map[string]any `json:"data"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if sku, _ := req.Data["sku"].(string); sku != "" && sku == f.failCreateSKU {
			http.Error(w, `{"error":{"message":"rejected"}}`, http.StatusBadRequest)
			return
		}
		f.creates = append(f.creates, req.Data)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"data":{"documentId":"created"}}`)

	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/api/products/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/products/")
		var req struct {
			Data map[string]any `json:"data"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		f.updates[id] = append(f.updates[id], req.Data)
		io.WriteString(w, `{"data":{"documentId":"`+id+`"}}`)

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeCMS) lastUpdate(id string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if us := f.updates[id]; len(us) > 0 {
		return us[len(us)-1]
	}
	return nil
}

func (f *fakeCMS) createdDoc(sku string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, doc := range f.creates {
		if doc["sku"] == sku {
			return doc
		}
	}
	return nil
}

func (f *fakeCMS) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func newTestCatalogSync(t *testing.T, cms *fakeCMS, connectors ...SupplierConnector) *CatalogSyncService {
	t.Helper()
	return NewCatalogSyncService(cms.client(), newTestEngine(t, connectors...))
}

func TestSyncTopProductsCreatesAndUpdates(t *testing.T) {
	cms := newFakeCMS(t)
	cms.docs["PC54"] = models.CatalogProduct{DocumentID: "doc1", SKU: "PC54", UsageCount: 7}
	svc := newTestCatalogSync(t, cms)

	res, err := svc.SyncTopProducts(context.Background(), []models.TopProduct{
		{StyleNumber: "PC54", StyleName: "Port & Company Core Tee", OrderCount: 12, TotalQuantity: 480, Score: 99.67},
		{StyleNumber: "G500", StyleName: "Gildan Heavy Cotton Tee", OrderCount: 4, TotalQuantity: 60, Score: 42.9},
	}, SyncOptions{})
	if err != nil {
		t.Fatalf("SyncTopProducts: %v", err)
	}
	if res.Synced != 2 || res.Errors != 0 {
		t.Errorf("result = %+v, want 2 synced / 0 errors", res)
	}

	upd := cms.lastUpdate("doc1")
	if upd == nil {
		t.Fatal("existing PC54 should be updated by documentId")
	}
	if got := upd["usageCount"]; got != float64(7) {
		t.Errorf("usageCount = %v, want preserved 7", got)
	}
	if got := upd["priority"]; got != float64(99) {
		t.Errorf("priority = %v, want truncated score 99", got)
	}

	created := cms.createdDoc("G500")
	if created == nil {
		t.Fatal("G500 should be created")
	}
	if got := created["brand"]; got != "Gildan" {
		t.Errorf("brand = %v, want detected Gildan", got)
	}
	if got := created["supplier"]; got != "sanmar" {
		t.Errorf("supplier = %v, want routed sanmar", got)
	}
	if got := created["category"]; got != "other" {
		t.Errorf("category = %v, want fallback other", got)
	}
	if got := created["isTopProduct"]; got != true {
		t.Errorf("isTopProduct = %v, want true", got)
	}
}

func TestSyncTopProductsSupplierEnrichment(t *testing.T) {
	cms := newFakeCMS(t)
	conn := &stubConnector{
		code:     models.SupplierSanMar,
		products: map[string]*models.UnifiedProduct{"PC54": stubProduct("PC54", models.SupplierSanMar)},
	}
	svc := newTestCatalogSync(t, cms, conn)

	if _, err := svc.SyncTopProducts(context.Background(), []models.TopProduct{
		{StyleNumber: "PC54", StyleName: "Some Order Description", Score: 80},
	}, SyncOptions{}); err != nil {
		t.Fatalf("SyncTopProducts: %v", err)
	}

	doc := cms.createdDoc("PC54")
	if doc == nil {
		t.Fatal("PC54 should be created")
	}
	if got := doc["name"]; got != "Stub Style PC54" {
		t.Errorf("name = %v, want supplier name over order description", got)
	}
	if got := doc["category"]; got != "t-shirts" {
		t.Errorf("category = %v, want supplier category", got)
	}
	if got := doc["basePrice"]; got != 4.5 {
		t.Errorf("basePrice = %v, want 4.5", got)
	}
	if got := doc["variantCount"]; got != float64(3) {
		t.Errorf("variantCount = %v, want 3", got)
	}
	if got := doc["totalInventory"]; got != float64(65) {
		t.Errorf("totalInventory = %v, want 65", got)
	}
}

func TestSyncTopProductsPerItemFailure(t *testing.T) {
	cms := newFakeCMS(t)
	cms.failCreateSKU = "BAD1"
	svc := newTestCatalogSync(t, cms)

	res, err := svc.SyncTopProducts(context.Background(), []models.TopProduct{
		{StyleNumber: "BAD1", StyleName: "Broken Style", Score: 50},
		{StyleNumber: "G500", StyleName: "Gildan Heavy Cotton Tee", Score: 40},
	}, SyncOptions{})
	if err != nil {
		t.Fatalf("SyncTopProducts: %v", err)
	}
	if res.Synced != 1 || res.Errors != 1 {
		t.Errorf("result = %+v, want 1 synced / 1 error", res)
	}
	if cms.createdDoc("G500") == nil {
		t.Error("failure on BAD1 must not stop the G500 sync")
	}
}

func TestSyncTopProductsDryRun(t *testing.T) {
	cms := newFakeCMS(t)
	svc := newTestCatalogSync(t, cms)

	var progress [][2]int
	res, err := svc.SyncTopProducts(context.Background(), []models.TopProduct{
		{StyleNumber: "PC54", StyleName: "A"},
		{StyleNumber: "G500", StyleName: "B"},
		{StyleNumber: "3001", StyleName: "C"},
	}, SyncOptions{
		DryRun:   true,
		Progress: func(done, total int) { progress = append(progress, [2]int{done, total}) },
	})
	if err != nil {
		t.Fatalf("SyncTopProducts: %v", err)
	}
	if res.Synced != 0 || res.Errors != 0 {
		t.Errorf("dry run result = %+v, want zeros", res)
	}
	if cms.requestCount() != 0 {
		t.Errorf("dry run sent %d requests, want 0", cms.requestCount())
	}

	want := [][2]int{{1, 3}, {2, 3}, {3, 3}}
	if len(progress) != len(want) {
		t.Fatalf("progress calls = %v, want %v", progress, want)
	}
	for i := range want {
		if progress[i] != want[i] {
			t.Errorf("progress[%d] = %v, want %v", i, progress[i], want[i])
		}
	}
}

func TestUpdateInventory(t *testing.T) {
	cms := newFakeCMS(t)
	cms.docs["PC54"] = models.CatalogProduct{DocumentID: "doc1", SKU: "PC54", IsTopProduct: true}
	cms.docs["ZZZ999"] = models.CatalogProduct{DocumentID: "doc2", SKU: "ZZZ999", IsTopProduct: true}

	conn := &stubConnector{
		code:     models.SupplierSanMar,
		products: map[string]*models.UnifiedProduct{"PC54": stubProduct("PC54", models.SupplierSanMar)},
	}
	svc := newTestCatalogSync(t, cms, conn)

	res, err := svc.UpdateInventory(context.Background(), 10)
	if err != nil {
		t.Fatalf("UpdateInventory: %v", err)
	}
	if res.Synced != 1 || res.Errors != 1 {
		t.Errorf("result = %+v, want 1 updated / 1 error", res)
	}

	patch := cms.lastUpdate("doc1")
	if patch == nil {
		t.Fatal("PC54 document should be patched")
	}
	if got := patch["basePrice"]; got != 4.5 {
		t.Errorf("basePrice = %v, want 4.5", got)
	}
	if got := patch["isActive"]; got != true {
		t.Errorf("isActive = %v, want true", got)
	}
	if _, ok := patch["name"]; ok {
		t.Error("inventory patch must not rewrite unrelated fields")
	}
	if cms.lastUpdate("doc2") != nil {
		t.Error("unresolvable style must not be patched")
	}
}

func TestPriorityFromScore(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{99.67, 99},
		{100, 100},
		{230.5, 100},
		{0, 0},
		{-3, 0},
	}
	for _, tt := range tests {
		if got := priorityFromScore(tt.score); got != tt.want {
			t.Errorf("priorityFromScore(%v) = %d, want %d", tt.score, got, tt.want)
		}
	}
}
