package redis

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"oauthd/internal/config"
	"oauthd/internal/storage"
	"strconv"
	"time"
)

// Cache using redis keeps short-lived single-use artifacts with per-key TTL
type Cache struct {
	rdb    *redis.Client
	prefix string
}

// NewCache creates new instance of redis client
func NewCache(conf *config.RedisConfig) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.Host + ":" + strconv.Itoa(conf.Port),
		Password: conf.Password,
		DB:       conf.DB,
	})

	return NewCacheWithClient(rdb, conf.KeyPrefix)
}

// NewCacheWithClient wraps already configured client
func NewCacheWithClient(rdb *redis.Client, prefix string) *Cache {
	return &Cache{rdb: rdb, prefix: prefix}
}

func (c *Cache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// Ping checks connection
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes underlying client
func (c *Cache) Close() error {
	return c.rdb.Close()
}

// SetWithTTL stores value under key, the key disappears after ttl
func (c *Cache) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	const op = "storage.redis.SetWithTTL"

	if err := c.rdb.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetAndDelete reads and removes key in one GETDEL command.
// Of concurrent callers only one observes the value, others get storage.ErrKeyNotFound.
func (c *Cache) GetAndDelete(ctx context.Context, key string) ([]byte, error) {
	const op = "storage.redis.GetAndDelete"

	b, err := c.rdb.GetDel(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrKeyNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// Get reads key without consuming it
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "storage.redis.Get"

	b, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrKeyNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// Delete removes key, missing key is not an error
func (c *Cache) Delete(ctx context.Context, key string) error {
	const op = "storage.redis.Delete"

	if err := c.rdb.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
