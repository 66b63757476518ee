package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/intima/internal/logger"
	"github.com/example/intima/internal/models"
)

const (
	DefaultProductTTL = 5 * time.Minute
	productIDKey      = "product:id:%s"
	productSlugKey    = "product:slug:%s"
)

// ProductCache keeps product detail payloads in Redis. A cache built without
// a client misses on every read and ignores writes.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// New connects to redisURL. An empty URL yields a disabled cache.
func New(redisURL string, ttl time.Duration, log *logger.Logger) (*ProductCache, error) {
	if ttl <= 0 {
		ttl = DefaultProductTTL
	}
	if redisURL == "" {
		return &ProductCache{ttl: ttl, log: log}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewFromClient(redis.NewClient(opts), ttl, log), nil
}

func NewFromClient(client *redis.Client, ttl time.Duration, log *logger.Logger) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultProductTTL
	}
	return &ProductCache{client: client, ttl: ttl, log: log}
}

// Enabled reports whether a Redis client is configured.
func (c *ProductCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Ping checks connectivity; a disabled cache always succeeds.
func (c *ProductCache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *ProductCache) ByID(ctx context.Context, id string) (*models.Product, bool) {
	return c.get(ctx, fmt.Sprintf(productIDKey, id))
}

func (c *ProductCache) BySlug(ctx context.Context, slug string) (*models.Product, bool) {
	return c.get(ctx, fmt.Sprintf(productSlugKey, slug))
}

// Store caches the product under both its id and slug.
func (c *ProductCache) Store(ctx context.Context, product *models.Product) {
	if !c.Enabled() || product == nil {
		return
	}

	data, err := json.Marshal(product)
	if err != nil {
		c.log.Error("[Cache] encode product %s: %v", product.ID, err)
		return
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, fmt.Sprintf(productIDKey, product.ID.String()), data, c.ttl)
	if product.Slug != "" {
		pipe.Set(ctx, fmt.Sprintf(productSlugKey, product.Slug), data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Error("[Cache] store product %s: %v", product.ID, err)
	}
}

// Invalidate drops cached entries for the product id and any of the given
// slugs (pass both old and new slugs after a rename).
func (c *ProductCache) Invalidate(ctx context.Context, id string, slugs ...string) {
	if !c.Enabled() {
		return
	}

	keys := KeysFor(id, slugs...)
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Error("[Cache] invalidate product %s: %v", id, err)
	}
}

func (c *ProductCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func (c *ProductCache) get(ctx context.Context, key string) (*models.Product, bool) {
	if !c.Enabled() {
		return nil, false
	}

	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Error("[Cache] read %s: %v", key, err)
		}
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal(val, &product); err != nil {
		c.log.Error("[Cache] decode %s: %v", key, err)
		return nil, false
	}
	c.log.Debug("[Cache] hit %s", key)
	return &product, true
}

// KeysFor lists the cache keys a product occupies.
func KeysFor(id string, slugs ...string) []string {
	var keys []string
	if id != "" {
		keys = append(keys, fmt.Sprintf(productIDKey, id))
	}
	seen := map[string]bool{}
	for _, slug := range slugs {
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		keys = append(keys, fmt.Sprintf(productSlugKey, slug))
	}
	return keys
}
