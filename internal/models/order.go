package models

import "time"

// Order is the slice of a CMS order document the analyzer consumes.
type Order struct {
	DocumentID string          `json:"documentId"`
	CreatedAt  time.Time       `json:"createdAt"`
	LineItems  []OrderLineItem `json:"lineItems"`
}

// OrderLineItem is one garment line on an order.
type OrderLineItem struct {
	StyleNumber      string `json:"styleNumber"`
	StyleDescription string `json:"styleDescription"`
	Color            string `json:"color,omitempty"`
	Category         string `json:"category,omitempty"`
	TotalQuantities  int    `json:"totalQuantities"`
}
