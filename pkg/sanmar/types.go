package sanmar

// SanMar publishes no live lookup API. Catalog data arrives as bulk CSV
// files on their SFTP drop; this package parses them into an in-memory
// catalog that serves all lookups.

// Default filenames on the SFTP drop. Overridable via configuration.
const (
	DefaultProductFile = "sanmar_pdd.csv"
	DefaultSKUFile     = "sanmar_epdd.csv"
	DefaultDeltaFile   = "sanmar_inventory_delta.csv"
)

// ProductRow is one style from the product description file.
type ProductRow struct {
	StyleNumber   string  `csv:"STYLE#"`
	Title         string  `csv:"PRODUCT_TITLE"`
	Description   string  `csv:"PRODUCT_DESCRIPTION"`
	Mill          string  `csv:"MILL"`
	Category      string  `csv:"CATEGORY_NAME"`
	Subcategory   string  `csv:"SUBCATEGORY_NAME"`
	PiecePrice    float64 `csv:"PIECE_PRICE"`
	DozenPrice    float64 `csv:"DOZEN_PRICE"`
	CasePrice     float64 `csv:"CASE_PRICE"`
	FrontImageURL string  `csv:"FRONT_MODEL_IMAGE_URL"`
	BackImageURL  string  `csv:"BACK_MODEL_IMAGE_URL"`
	SideImageURL  string  `csv:"SIDE_MODEL_IMAGE_URL"`
}

// SKURow is one per-SKU row from the enhanced data file. The hourly delta
// file reuses the same columns with only quantities changing.
type SKURow struct {
	UniqueKey   string `csv:"UNIQUE_KEY"`
	StyleNumber string `csv:"STYLE#"`
	ColorName   string `csv:"COLOR_NAME"`
	Size        string `csv:"SIZE"`
	Quantity    int    `csv:"QTY"`
}
