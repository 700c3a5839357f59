package sanmar

import (
	"strings"
	"testing"
)

const productCSV = `STYLE#,PRODUCT_TITLE,PRODUCT_DESCRIPTION,MILL,CATEGORY_NAME,SUBCATEGORY_NAME,PIECE_PRICE,DOZEN_PRICE,CASE_PRICE,FRONT_MODEL_IMAGE_URL,BACK_MODEL_IMAGE_URL,SIDE_MODEL_IMAGE_URL
PC54,Port & Company Core Cotton Tee,5.4oz cotton tee,Port & Company,T-Shirts,Core,3.49,3.29,2.99,https://cdn.example.com/pc54_front.jpg,https://cdn.example.com/pc54_back.jpg,
K110,Port Authority Dry Zone Polo,Performance polo,Port Authority,Polos,Performance,12.99,12.49,11.99,https://cdn.example.com/k110_front.jpg,,
`

const skuCSV = `UNIQUE_KEY,STYLE#,COLOR_NAME,SIZE,QTY
100001,PC54,Jet Black,S,120
100002,PC54,Jet Black,M,350
100003,PC54,White,M,0
200001,K110,Navy,L,45
999999,ZZZZ,Ghost,XL,10
`

func loadedCatalog(t *testing.T) *Catalog {
	t.Helper()
	products, err := ParseProducts(strings.NewReader(productCSV))
	if err != nil {
		t.Fatalf("ParseProducts: %v", err)
	}
	skus, err := ParseSKUs(strings.NewReader(skuCSV))
	if err != nil {
		t.Fatalf("ParseSKUs: %v", err)
	}

	c := NewCatalog()
	c.Load(products, skus)
	return c
}

func TestLoadBuildsStylesWithVariants(t *testing.T) {
	c := loadedCatalog(t)

	style := c.Style("pc54")
	if style == nil {
		t.Fatal("expected PC54 to be found (lookup is case-insensitive)")
	}
	if style.Brand != "Port & Company" {
		t.Errorf("Brand = %q, want Port & Company", style.Brand)
	}
	if len(style.Variants) != 3 {
		t.Fatalf("PC54 variants = %d, want 3", len(style.Variants))
	}
	if style.PiecePrice != 3.49 {
		t.Errorf("PiecePrice = %v, want 3.49", style.PiecePrice)
	}
	if len(style.Images) != 2 {
		t.Errorf("Images = %d, want 2 (empty URLs dropped)", len(style.Images))
	}
}

func TestLoadDropsSKUsForUnknownStyles(t *testing.T) {
	c := loadedCatalog(t)

	stats := c.Stats()
	if stats.Styles != 2 {
		t.Errorf("Styles = %d, want 2", stats.Styles)
	}
	// 5 SKU rows in the file, one references untracked style ZZZZ.
	if stats.Variants != 4 {
		t.Errorf("Variants = %d, want 4", stats.Variants)
	}
	if !stats.Loaded {
		t.Error("expected Loaded to be true after Load")
	}
	if stats.LastFullSync == nil {
		t.Error("expected LastFullSync to be stamped")
	}
}

func TestApplyDeltaPatchesQuantities(t *testing.T) {
	c := loadedCatalog(t)

	applied := c.ApplyDelta([]SKURow{
		{UniqueKey: "100002", StyleNumber: "PC54", ColorName: "Jet Black", Size: "M", Quantity: 75},
		{UniqueKey: "888888", StyleNumber: "PC54", ColorName: "Red", Size: "M", Quantity: 10},
	})
	if applied != 1 {
		t.Fatalf("applied = %d, want 1 (unknown keys skipped)", applied)
	}

	style := c.Style("PC54")
	var got int
	for _, v := range style.Variants {
		if v.UniqueKey == "100002" {
			got = v.Quantity
		}
	}
	if got != 75 {
		t.Errorf("quantity after delta = %d, want 75", got)
	}
	if c.Stats().LastDeltaSync == nil {
		t.Error("expected LastDeltaSync to be stamped")
	}
}

func TestStyleReturnsCopy(t *testing.T) {
	c := loadedCatalog(t)

	style := c.Style("PC54")
	style.Variants[0].Quantity = -1
	style.Title = "mutated"

	again := c.Style("PC54")
	if again.Variants[0].Quantity == -1 || again.Title == "mutated" {
		t.Error("mutating a returned style leaked into the catalog")
	}
}

func TestSearchMatchesNameSKUAndBrand(t *testing.T) {
	c := loadedCatalog(t)

	cases := []struct {
		query string
		want  int
	}{
		{"pc54", 1},
		{"polo", 1},
		{"port", 2},
		{"doesnotexist", 0},
	}
	for _, tc := range cases {
		if got := len(c.Search(tc.query, 10)); got != tc.want {
			t.Errorf("Search(%q) = %d results, want %d", tc.query, got, tc.want)
		}
	}
}

func TestEmptyCatalogReportsNotLoaded(t *testing.T) {
	c := NewCatalog()

	if c.Loaded() {
		t.Error("empty catalog reports Loaded")
	}
	if got := c.Style("PC54"); got != nil {
		t.Errorf("Style on empty catalog = %+v, want nil", got)
	}
	stats := c.Stats()
	if stats.Loaded || stats.Styles != 0 {
		t.Errorf("Stats on empty catalog = %+v", stats)
	}
}
