package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"katalog/internal/models"

	"github.com/go-redis/redis/v8"
)

// ProductCache stores product snapshots by ID. A miss is reported as
// (nil, false, nil).
type ProductCache interface {
	Get(ctx context.Context, id int) (*models.Product, bool, error)
	Set(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int) error
}

// RedisProductCache keeps JSON-encoded products in redis under product:<id>.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProductCache wraps an existing redis client.
func NewRedisProductCache(client *redis.Client, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{client: client, ttl: ttl}
}

// Dial connects to addr and pings it once.
func Dial(ctx context.Context, addr string, ttl time.Duration) (*RedisProductCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return NewRedisProductCache(client, ttl), nil
}

func cacheKey(id int) string {
	return "product:" + strconv.Itoa(id)
}

// Get loads a product snapshot.
func (c *RedisProductCache) Get(ctx context.Context, id int) (*models.Product, bool, error) {
	value, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read product %d from cache: %w", id, err)
	}

	var product models.Product
	if err := json.Unmarshal(value, &product); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached product %d: %w", id, err)
	}
	return &product, true, nil
}

// Set stores a snapshot with the configured TTL.
func (c *RedisProductCache) Set(ctx context.Context, product *models.Product) error {
	payload, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to encode product %d: %w", product.ID, err)
	}
	return c.client.Set(ctx, cacheKey(product.ID), payload, c.ttl).Err()
}

// Delete evicts a snapshot; evicting a missing key is not an error.
func (c *RedisProductCache) Delete(ctx context.Context, id int) error {
	return c.client.Del(ctx, cacheKey(id)).Err()
}

// Close releases the underlying client.
func (c *RedisProductCache) Close() error {
	return c.client.Close()
}
