package sanmar

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrNotSynced distinguishes "the catalog has no data yet" from "this
// style is not in the catalog". Readers hit it between process start and
// the first successful bulk sync.
var ErrNotSynced = errors.New("sanmar catalog not yet synced")

// CatalogStyle is a style with its variants as held by the catalog.
type CatalogStyle struct {
	StyleNumber string           `json:"styleNumber"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Brand       string           `json:"brand,omitempty"`
	Category    string           `json:"category,omitempty"`
	Subcategory string           `json:"subcategory,omitempty"`
	PiecePrice  float64          `json:"piecePrice"`
	DozenPrice  float64          `json:"dozenPrice,omitempty"`
	CasePrice   float64          `json:"casePrice,omitempty"`
	Images      []string         `json:"images,omitempty"`
	Variants    []CatalogVariant `json:"variants"`
}

// CatalogVariant is one color/size SKU of a style.
type CatalogVariant struct {
	UniqueKey   string `json:"uniqueKey"`
	StyleNumber string `json:"styleNumber"`
	Color       string `json:"color"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
}

// CatalogStats describes the current catalog contents for health reporting.
type CatalogStats struct {
	Styles        int        `json:"styles"`
	Variants      int        `json:"variants"`
	Loaded        bool       `json:"loaded"`
	LastFullSync  *time.Time `json:"lastFullSync,omitempty"`
	LastDeltaSync *time.Time `json:"lastDeltaSync,omitempty"`
}

// Catalog is the in-memory SanMar product store. Reads vastly outnumber
// writes: the only writer is the sync job, which either swaps the whole
// contents (full reload) or patches quantities in place (hourly delta).
type Catalog struct {
	mu            sync.RWMutex
	styles        map[string]*CatalogStyle
	variantsByKey map[string]*CatalogVariant
	lastFullSync  time.Time
	lastDeltaSync time.Time
}

// NewCatalog returns an empty catalog. Lookups against it report not loaded
// until the first Load.
func NewCatalog() *Catalog {
	return &Catalog{
		styles:        make(map[string]*CatalogStyle),
		variantsByKey: make(map[string]*CatalogVariant),
	}
}

// Load replaces the catalog contents from freshly parsed bulk files.
// SKU rows referencing styles absent from the product file are dropped.
func (c *Catalog) Load(products []ProductRow, skus []SKURow) {
	styles := make(map[string]*CatalogStyle, len(products))
	for _, p := range products {
		style := strings.ToUpper(strings.TrimSpace(p.StyleNumber))
		if style == "" {
			continue
		}
		images := make([]string, 0, 3)
		for _, u := range []string{p.FrontImageURL, p.SideImageURL, p.BackImageURL} {
			if u != "" {
				images = append(images, u)
			}
		}
		styles[style] = &CatalogStyle{
			StyleNumber: style,
			Title:       p.Title,
			Description: p.Description,
			Brand:       p.Mill,
			Category:    p.Category,
			Subcategory: p.Subcategory,
			PiecePrice:  p.PiecePrice,
			DozenPrice:  p.DozenPrice,
			CasePrice:   p.CasePrice,
			Images:      images,
		}
	}

	variantsByKey := make(map[string]*CatalogVariant, len(skus))
	for _, row := range skus {
		style := strings.ToUpper(strings.TrimSpace(row.StyleNumber))
		entry, ok := styles[style]
		if !ok {
			continue
		}
		entry.Variants = append(entry.Variants, CatalogVariant{
			UniqueKey:   strings.ToUpper(strings.TrimSpace(row.UniqueKey)),
			StyleNumber: style,
			Color:       row.ColorName,
			Size:        row.Size,
			Quantity:    row.Quantity,
		})
		v := &entry.Variants[len(entry.Variants)-1]
		if v.UniqueKey != "" {
			variantsByKey[v.UniqueKey] = v
		}
	}

	c.mu.Lock()
	c.styles = styles
	c.variantsByKey = variantsByKey
	c.lastFullSync = time.Now().UTC()
	c.mu.Unlock()
}

// ApplyDelta patches quantities from an hourly inventory file. Rows whose
// unique key is unknown are skipped. Returns the number of rows applied.
func (c *Catalog) ApplyDelta(rows []SKURow) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	applied := 0
	for _, row := range rows {
		key := strings.ToUpper(strings.TrimSpace(row.UniqueKey))
		if key == "" {
			continue
		}
		if v, ok := c.variantsByKey[key]; ok {
			v.Quantity = row.Quantity
			applied++
		}
	}
	if applied > 0 {
		c.lastDeltaSync = time.Now().UTC()
	}
	return applied
}

// Style returns a copy of the style with the given number, or nil. The copy
// keeps callers isolated from in-place delta updates.
func (c *Catalog) Style(styleNumber string) *CatalogStyle {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.styles[strings.ToUpper(strings.TrimSpace(styleNumber))]
	if !ok {
		return nil
	}
	return copyStyle(entry)
}

// Styles returns up to limit style copies, all of them when limit <= 0.
// Iteration order is unspecified.
func (c *Catalog) Styles(limit int) []CatalogStyle {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := len(c.styles)
	if limit > 0 && limit < n {
		n = limit
	}
	results := make([]CatalogStyle, 0, n)
	for _, entry := range c.styles {
		if len(results) >= n {
			break
		}
		results = append(results, *copyStyle(entry))
	}
	return results
}

// Search returns styles whose number, title or brand contains the query,
// case-insensitive, up to limit results.
func (c *Catalog) Search(query string, limit int) []CatalogStyle {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	results := make([]CatalogStyle, 0)
	for _, entry := range c.styles {
		if limit > 0 && len(results) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(entry.StyleNumber), needle) ||
			strings.Contains(strings.ToLower(entry.Title), needle) ||
			strings.Contains(strings.ToLower(entry.Brand), needle) {
			results = append(results, *copyStyle(entry))
		}
	}
	return results
}

// Loaded reports whether a full load has completed.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.styles) > 0
}

// Stats returns a snapshot of catalog contents for health reporting.
func (c *Catalog) Stats() CatalogStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	variants := 0
	for _, entry := range c.styles {
		variants += len(entry.Variants)
	}
	stats := CatalogStats{
		Styles:   len(c.styles),
		Variants: variants,
		Loaded:   len(c.styles) > 0,
	}
	if !c.lastFullSync.IsZero() {
		t := c.lastFullSync
		stats.LastFullSync = &t
	}
	if !c.lastDeltaSync.IsZero() {
		t := c.lastDeltaSync
		stats.LastDeltaSync = &t
	}
	return stats
}

func copyStyle(entry *CatalogStyle) *CatalogStyle {
	cp := *entry
	cp.Images = append([]string(nil), entry.Images...)
	cp.Variants = append([]CatalogVariant(nil), entry.Variants...)
	return &cp
}
