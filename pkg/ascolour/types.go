package ascolour

// Style is a catalog product as returned by the /v1/catalog/products
// endpoints. Colour and size lists are separate; variants are derived
// downstream as their cross product.
type Style struct {
	StyleCode    string   `json:"styleCode"`
	StyleName    string   `json:"styleName"`
	Description  string   `json:"description"`
	ProductType  string   `json:"productType"`
	Composition  string   `json:"composition"`
	FabricWeight string   `json:"fabricWeight"`
	Fit          string   `json:"fit"`
	WebID        int      `json:"webId"`
	Colours      []Colour `json:"colours"`
	Sizes        []string `json:"sizes"`
	Images       []Image  `json:"images"`
}

// Colour is one colourway of a style.
type Colour struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Image is a product image; View is front/back/side/detail.
type Image struct {
	URL  string `json:"url"`
	View string `json:"view"`
}

// InventoryItem is the per-variant stock row from /v1/inventory/items/{sku}.
type InventoryItem struct {
	SKU               string `json:"sku"`
	QuantityAvailable int    `json:"quantityAvailable"`
	Warehouse         string `json:"warehouse,omitempty"`
}

// StylePricing is the wholesale price block for a style. Requires the JWT
// obtained via Authenticate; the subscription key alone is not enough.
type StylePricing struct {
	StyleCode string  `json:"styleCode"`
	Wholesale float64 `json:"wholesale"`
	Currency  string  `json:"currency"`
}

// The catalog API wraps list and single payloads in a data field.
type stylesEnvelope struct {
	Data []Style `json:"data"`
}

type styleEnvelope struct {
	Data *Style `json:"data"`
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
}
