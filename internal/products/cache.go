package products

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/neutron-labs/inventory-service/pkg/logger"
	"github.com/neutron-labs/inventory-service/pkg/redis"
)

const (
	cacheDimensionID  = "id"
	cacheDimensionSKU = "sku"
)

// Cache is a read-through product cache on Redis, keyed by id and by SKU. A
// nil Cache (or one without a client) degrades to pass-through so the service
// runs without Redis in tests and local setups.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logg   *logger.Logger
}

// NewCache wires the cache. TTL <= 0 disables expiry-based refresh and falls
// back to five minutes.
func NewCache(client *redis.Client, ttl time.Duration, logg *logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl, logg: logg}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// GetByID returns the cached DTO for the product id, or (nil, false).
func (c *Cache) GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, bool) {
	return c.get(ctx, cacheDimensionID, id.String())
}

// GetBySKU returns the cached DTO for the SKU, or (nil, false).
func (c *Cache) GetBySKU(ctx context.Context, sku string) (*ProductDTO, bool) {
	return c.get(ctx, cacheDimensionSKU, sku)
}

func (c *Cache) get(ctx context.Context, dimension, value string) (*ProductDTO, bool) {
	if !c.enabled() {
		return nil, false
	}
	payload, err := c.client.Get(ctx, c.client.ProductKey(dimension, value))
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) && c.logg != nil {
			c.logg.Warn(ctx, "product cache read failed")
		}
		return nil, false
	}
	var dto ProductDTO
	if err := json.Unmarshal([]byte(payload), &dto); err != nil {
		// Stale or corrupted entry; drop it and fall through to the DB.
		_ = c.client.Del(ctx, c.client.ProductKey(dimension, value))
		return nil, false
	}
	return &dto, true
}

// Store caches the DTO under both its id and SKU keys. Failures are logged
// and swallowed; the cache never fails a read path.
func (c *Cache) Store(ctx context.Context, dto *ProductDTO) {
	if !c.enabled() || dto == nil {
		return
	}
	payload, err := json.Marshal(dto)
	if err != nil {
		return
	}
	keys := []string{
		c.client.ProductKey(cacheDimensionID, dto.ID.String()),
		c.client.ProductKey(cacheDimensionSKU, dto.SKU),
	}
	for _, key := range keys {
		if err := c.client.Set(ctx, key, payload, c.ttl); err != nil {
			if c.logg != nil {
				c.logg.Warn(ctx, "product cache write failed")
			}
			return
		}
	}
}

// Invalidate drops both keys for the product. Safe to call with a blank SKU.
func (c *Cache) Invalidate(ctx context.Context, id uuid.UUID, sku string) {
	if !c.enabled() {
		return
	}
	keys := []string{c.client.ProductKey(cacheDimensionID, id.String())}
	if sku != "" {
		keys = append(keys, c.client.ProductKey(cacheDimensionSKU, sku))
	}
	if err := c.client.Del(ctx, keys...); err != nil && c.logg != nil {
		c.logg.Warn(ctx, "product cache invalidation failed")
	}
}
