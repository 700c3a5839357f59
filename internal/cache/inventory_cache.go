package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/printshop-os/inventory_api/internal/models"
)

// DefaultInventoryTTL is how long a cached inventory check stays fresh.
const DefaultInventoryTTL = 15 * time.Minute

// InventoryCache stores whole InventoryCheckResponse records in Redis under
// supplier-qualified keys, feeding hit/miss counts into Stats. Records are
// written and replaced wholesale, never patched in place.
type InventoryCache struct {
	redis *RedisClient
	stats *Stats
	ttl   time.Duration
}

// NewInventoryCache creates an InventoryCache. A zero ttl falls back to the
// 15 minute default.
func NewInventoryCache(redis *RedisClient, stats *Stats, ttl time.Duration) *InventoryCache {
	if ttl <= 0 {
		ttl = DefaultInventoryTTL
	}
	return &InventoryCache{redis: redis, stats: stats, ttl: ttl}
}

// TTL returns the configured entry lifetime.
func (c *InventoryCache) TTL() time.Duration {
	return c.ttl
}

// Stats exposes the counters shared with the query engine.
func (c *InventoryCache) Stats() *Stats {
	return c.stats
}

// Connected reports whether the backing store is live.
func (c *InventoryCache) Connected() bool {
	return c.redis.Connected()
}

// key builds the supplier-qualified cache key so two suppliers sharing a
// SKU string can never collide.
func (c *InventoryCache) key(supplier models.SupplierCode, sku string) string {
	return fmt.Sprintf("inventory:%s:%s", supplier, strings.ToUpper(sku))
}

// Get returns the cached record for a supplier/SKU pair, or nil on a miss.
// Corrupt entries are dropped and count as misses. Every call records
// exactly one hit or one miss.
func (c *InventoryCache) Get(ctx context.Context, supplier models.SupplierCode, sku string) *models.InventoryCheckResponse {
	key := c.key(supplier, sku)

	raw, err := c.redis.Get(ctx, key)
	if err != nil {
		c.stats.RecordMiss()
		return nil
	}

	var resp models.InventoryCheckResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		log.Warn().Str("key", key).Msg("Dropping malformed cache entry")
		c.Invalidate(ctx, supplier, sku)
		c.stats.RecordMiss()
		return nil
	}

	c.stats.RecordHit()
	return &resp
}

// Set stores a freshly built record. Failures are absorbed by the client.
func (c *InventoryCache) Set(ctx context.Context, resp *models.InventoryCheckResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		log.Warn().Err(err).Str("sku", resp.SKU).Msg("Failed to marshal inventory record")
		return
	}
	_ = c.redis.Set(ctx, c.key(resp.Supplier, resp.SKU), string(data), c.ttl)
}

// Invalidate removes one supplier/SKU entry.
func (c *InventoryCache) Invalidate(ctx context.Context, supplier models.SupplierCode, sku string) {
	_ = c.redis.Delete(ctx, c.key(supplier, sku))
}

// InvalidateSKU removes the entry for a SKU across every supplier keyspace.
// Used when the caller knows the SKU but not which supplier owns it.
func (c *InventoryCache) InvalidateSKU(ctx context.Context, sku string) int {
	n, _ := c.redis.DeletePattern(ctx, fmt.Sprintf("inventory:*:%s", strings.ToUpper(sku)))
	return n
}

// InvalidatePattern removes every entry matching a glob over the inventory
// keyspace, e.g. "sanmar:*" or "*". Returns the number of keys removed.
func (c *InventoryCache) InvalidatePattern(ctx context.Context, pattern string) int {
	if pattern == "" {
		pattern = "*"
	}
	n, _ := c.redis.DeletePattern(ctx, "inventory:"+pattern)
	return n
}
