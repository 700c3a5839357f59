package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/printshop-os/inventory_api/pkg/strapi"
)

func healthRouter(cmsURL string) *gin.Engine {
	h := NewHealthHandler(strapi.NewClient(strapi.Config{BaseURL: cmsURL}))
	r := gin.New()
	r.GET("/health", h.GetHealth)
	return r
}

func decodeHealthData(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	var data map[string]any
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	return data
}

func TestGetHealth(t *testing.T) {
	cms := newCatalogCMS(t)
	r := healthRouter(cms.URL)

	w := doRequest(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	data := decodeHealthData(t, w.Body.Bytes())
	if data["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", data["status"])
	}
	cmsInfo, _ := data["cms"].(map[string]any)
	if cmsInfo["status"] != "connected" {
		t.Errorf("cms status = %v, want connected", cmsInfo["status"])
	}
}

func TestGetHealthCMSDown(t *testing.T) {
	r := healthRouter("http://127.0.0.1:1")

	w := doRequest(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	data := decodeHealthData(t, w.Body.Bytes())
	cmsInfo, _ := data["cms"].(map[string]any)
	if cmsInfo["status"] != "disconnected" {
		t.Errorf("cms status = %v, want disconnected", cmsInfo["status"])
	}
}
