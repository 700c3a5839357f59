package ssactivewear

// Style is a product as returned by /v2/products/{styleID}. Unlike AS
// Colour, one payload embeds colors, sizes, price tiers and per-variant
// stock rows; no secondary calls are needed.
type Style struct {
	StyleID       string      `json:"styleID"`
	StyleName     string      `json:"styleName"`
	BrandName     string      `json:"brandName"`
	CategoryName  string      `json:"categoryName"`
	Description   string      `json:"description"`
	FabricContent string      `json:"fabricContent"`
	PieceWeight   string      `json:"pieceWeight"`
	Colors        []Color     `json:"colors"`
	Sizes         []string    `json:"sizes"`
	Pricing       []PriceTier `json:"pricing"`
	Inventory     []StockRow  `json:"inventory"`
	Images        []string    `json:"images"`
}

// Color is one colorway of a style.
type Color struct {
	ColorName string `json:"colorName"`
	ColorCode string `json:"colorCode"`
}

// PriceTier is a per-unit price at a minimum quantity.
type PriceTier struct {
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// StockRow is quantity on hand for one color/size combination.
type StockRow struct {
	ColorName string `json:"colorName"`
	SizeName  string `json:"sizeName"`
	Qty       int    `json:"qty"`
}

// StylesPage is one page of the product list.
type StylesPage struct {
	Products []Style `json:"products"`
	Total    int     `json:"total"`
	HasMore  bool    `json:"hasMore"`
}
