package models

import "time"

// TopProduct is one ranked style from the order-history analysis.
type TopProduct struct {
	StyleNumber   string     `json:"styleNumber"`
	StyleName     string     `json:"styleName"`
	OrderCount    int        `json:"orderCount"`
	TotalQuantity int        `json:"totalQuantity"`
	LastUsed      *time.Time `json:"lastUsed,omitempty"`
	Categories    []string   `json:"categories,omitempty"`
	SampleColors  []string   `json:"sampleColors,omitempty"`
	Score         float64    `json:"score"`
}

// SyncResult summarizes a top-product sync run.
type SyncResult struct {
	Synced int `json:"synced"`
	Errors int `json:"errors"`
}
