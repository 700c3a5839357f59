package service

import (
	"context"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/printshop-os/inventory_api/internal/models"
	"github.com/printshop-os/inventory_api/pkg/strapi"
)

// Weights of the top-product ranking. Frequency and volume are normalized
// against the observed maximum so the scale adapts to the shop's size;
// recency decays linearly to zero over the window.
const (
	weightFrequency   = 0.4
	weightVolume      = 0.3
	weightRecency     = 0.3
	recencyWindowDays = 90

	// DefaultTopLimit bounds an analysis when the caller does not.
	DefaultTopLimit = 500

	analyzerPageSize = 100
	maxSampleColors  = 5
)

// ordersCollection is the CMS collection holding imported order history.
const ordersCollection = "orders"

// AnalyzerService ranks styles by how often, how much and how recently
// they were ordered, reading the order history out of the CMS.
type AnalyzerService struct {
	cms *strapi.Client
}

// NewAnalyzerService creates an analyzer over the CMS client.
func NewAnalyzerService(cms *strapi.Client) *AnalyzerService {
	return &AnalyzerService{cms: cms}
}

// Analyze streams the full order history and returns the top limit styles
// sorted by descending score. A non-positive limit means the default 500.
func (s *AnalyzerService) Analyze(ctx context.Context, limit int) ([]models.TopProduct, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	// Order documents carry customer and billing blocks the ranking never
	// reads; fetch only the line items and the order date.
	orders, err := strapi.FindAll[models.Order](ctx, s.cms, ordersCollection, strapi.FindOptions{
		PageSize: analyzerPageSize,
		Sort:     "createdAt:asc",
		Fields:   []string{"createdAt", "lineItems"},
	})
	if err != nil {
		return nil, err
	}

	byStyle := make(map[string]*models.TopProduct)
	lineItems := 0
	for _, order := range orders {
		for _, item := range order.LineItems {
			lineItems++
			accumulateLineItem(byStyle, item, order.CreatedAt)
		}
	}

	ranked := make([]*models.TopProduct, 0, len(byStyle))
	for _, p := range byStyle {
		ranked = append(ranked, p)
	}
	scoreProducts(ranked, time.Now().UTC())

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].StyleNumber < ranked[j].StyleNumber
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	log.Info().
		Int("orders", len(orders)).
		Int("line_items", lineItems).
		Int("unique_styles", len(byStyle)).
		Int("returned", len(ranked)).
		Msg("Order history analyzed")

	out := make([]models.TopProduct, len(ranked))
	for i, p := range ranked {
		out[i] = *p
	}
	return out, nil
}

// accumulateLineItem folds one order line into the per-style aggregate.
// Style numbers are matched case-insensitively; blank ones are skipped.
func accumulateLineItem(byStyle map[string]*models.TopProduct, item models.OrderLineItem, orderedAt time.Time) {
	style := strings.ToUpper(strings.TrimSpace(item.StyleNumber))
	if style == "" {
		return
	}

	p := byStyle[style]
	if p == nil {
		name := item.StyleDescription
		if name == "" {
			name = "Unknown Product"
		}
		p = &models.TopProduct{StyleNumber: style, StyleName: name}
		byStyle[style] = p
	}

	p.OrderCount++
	p.TotalQuantity += lineQuantity(item)

	if item.Category != "" && !slices.Contains(p.Categories, item.Category) {
		p.Categories = append(p.Categories, item.Category)
	}
	if item.Color != "" && len(p.SampleColors) < maxSampleColors && !slices.Contains(p.SampleColors, item.Color) {
		p.SampleColors = append(p.SampleColors, item.Color)
	}
	if !orderedAt.IsZero() && (p.LastUsed == nil || orderedAt.After(*p.LastUsed)) {
		t := orderedAt
		p.LastUsed = &t
	}
}

// lineQuantity treats missing or nonsense quantities as a single unit.
func lineQuantity(item models.OrderLineItem) int {
	if item.TotalQuantities > 0 {
		return item.TotalQuantities
	}
	return 1
}

// scoreProducts assigns each aggregate its weighted 0-100 score, rounded to
// two decimals.
func scoreProducts(products []*models.TopProduct, now time.Time) {
	if len(products) == 0 {
		return
	}

	maxOrders, maxQuantity := 1, 1
	for _, p := range products {
		if p.OrderCount > maxOrders {
			maxOrders = p.OrderCount
		}
		if p.TotalQuantity > maxQuantity {
			maxQuantity = p.TotalQuantity
		}
	}

	for _, p := range products {
		raw := weightFrequency*float64(p.OrderCount)/float64(maxOrders) +
			weightVolume*float64(p.TotalQuantity)/float64(maxQuantity) +
			weightRecency*recencyScore(p.LastUsed, now)
		p.Score = math.Round(raw*100*100) / 100
	}
}

// recencyScore is 1 for styles ordered today, fading linearly to 0 at the
// window edge. Styles with no usable date get no bonus.
func recencyScore(lastUsed *time.Time, now time.Time) float64 {
	if lastUsed == nil {
		return 0
	}
	days := int(now.Sub(*lastUsed).Hours() / 24)
	if days <= 0 {
		return 1
	}
	if days >= recencyWindowDays {
		return 0
	}
	return 1 - float64(days)/float64(recencyWindowDays)
}
