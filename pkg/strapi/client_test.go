package strapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
)

type testDoc struct {
	DocumentID string `json:"documentId"`
	SKU        string `json:"sku"`
	UsageCount int    `json:"usageCount"`
}

func TestFindBuildsFilterQueryAndDecodesRows(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if r.URL.Path != "/api/products" {
			t.Errorf("path = %s, want /api/products", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[{"documentId":"abc123","sku":"PC54","usageCount":7}],"meta":{"pagination":{"page":1,"pageSize":1,"total":42}}}`)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIToken: "test-token"})

	var docs []testDoc
	p, err := client.Find(context.Background(), "products", FindOptions{
		Filters:  map[string]string{"sku": "PC54"},
		Sort:     "usageCount:desc",
		PageSize: 1,
		Fields:   []string{"sku", "usageCount"},
	}, &docs)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}

	q, _ := url.ParseQuery(gotQuery)
	if got := q.Get("filters[sku][$eq]"); got != "PC54" {
		t.Errorf("filter param = %q, want PC54", got)
	}
	if got := q.Get("sort"); got != "usageCount:desc" {
		t.Errorf("sort param = %q, want usageCount:desc", got)
	}
	if got := q.Get("pagination[pageSize]"); got != "1" {
		t.Errorf("pageSize param = %q, want 1", got)
	}
	if q.Get("fields[0]") != "sku" || q.Get("fields[1]") != "usageCount" {
		t.Errorf("field params = %q/%q, want sku/usageCount", q.Get("fields[0]"), q.Get("fields[1]"))
	}
	if len(docs) != 1 || docs[0].DocumentID != "abc123" || docs[0].UsageCount != 7 {
		t.Errorf("decoded docs = %+v", docs)
	}
	if p.Total != 42 {
		t.Errorf("pagination total = %d, want 42", p.Total)
	}
}

func TestFindAllWalksEveryPage(t *testing.T) {
	pages := map[string]string{
		"1": `{"data":[{"documentId":"a","sku":"PC54"},{"documentId":"b","sku":"G500"}],"meta":{"pagination":{"page":1,"pageSize":2,"pageCount":2,"total":3}}}`,
		"2": `{"data":[{"documentId":"c","sku":"3001"}],"meta":{"pagination":{"page":2,"pageSize":2,"pageCount":2,"total":3}}}`,
	}
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		page := r.URL.Query().Get("pagination[page]")
		body, ok := pages[page]
		if !ok {
			t.Errorf("unexpected page request %q", page)
			body = `{"data":[],"meta":{"pagination":{}}}`
		}
		io.WriteString(w, body)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	docs, err := FindAll[testDoc](context.Background(), client, "products", FindOptions{PageSize: 2})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("docs = %d, want 3", len(docs))
	}
	if docs[2].SKU != "3001" {
		t.Errorf("last doc = %+v, want sku 3001", docs[2])
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("requests = %d, want 2", got)
	}
}

func TestCreateWrapsPayloadInDataEnvelope(t *testing.T) {
	var gotBody map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"data":{"documentId":"new1"}}`)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	err := client.Create(context.Background(), "products", map[string]any{"sku": "G500"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := gotBody["data"]; !ok {
		t.Error("request body missing data envelope")
	}
}

func TestUpdateTargetsDocumentID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		io.WriteString(w, `{"data":{"documentId":"abc123"}}`)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	if err := client.Update(context.Background(), "products", "abc123", map[string]any{"basePrice": 3.49}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if gotPath != "/api/products/abc123" {
		t.Errorf("path = %s, want /api/products/abc123", gotPath)
	}
}

func TestFindRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, `{"data":[],"meta":{"pagination":{"total":0}}}`)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	client.retry.InitialDelay = 0

	if _, err := client.Find(context.Background(), "orders", FindOptions{}, nil); err != nil {
		t.Fatalf("Find after retry: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestCreateFailsFastOnValidationError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"error":{"message":"sku must be unique"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	err := client.Create(context.Background(), "products", map[string]any{"sku": "DUP"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("calls = %d, want 1 (400 must not be retried)", got)
	}
}

func TestCountReadsPaginationTotal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":[],"meta":{"pagination":{"page":1,"pageSize":1,"total":137}}}`)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	n, err := client.Count(context.Background(), "products", map[string]string{"isTopProduct": "true"})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 137 {
		t.Errorf("Count = %d, want 137", n)
	}
}
