package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"StockLens/internal/model"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores serialized history between requests.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache implements Cache on a Redis server.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to addr and pings the server.
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Printf("[INFO] redis cache connected: %s (db=%d)", addr, db)
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CachedFetcher serves history from Cache when possible. Facts are always
// fetched live.
type CachedFetcher struct {
	Fetcher Fetcher
	Cache   Cache
	TTL     time.Duration
}

func NewCachedFetcher(f Fetcher, c Cache, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{Fetcher: f, Cache: c, TTL: ttl}
}

func (c *CachedFetcher) Name() string { return c.Fetcher.Name() + "+cache" }

func historyKey(source, symbol, period, interval string) string {
	return fmt.Sprintf("stocklens:history:%s:%s:%s:%s", source, symbol, period, interval)
}

func (c *CachedFetcher) FetchHistory(ctx context.Context, symbol, period, interval string) (*model.PriceSeries, error) {
	key := historyKey(c.Fetcher.Name(), symbol, period, interval)
	if raw, err := c.Cache.Get(ctx, key); err == nil {
		var series model.PriceSeries
		if err := json.Unmarshal(raw, &series); err == nil && series.Len() > 0 {
			return &series, nil
		}
		log.Printf("[WARN] discarding unreadable cache entry %s", key)
	} else if !errors.Is(err, ErrCacheMiss) {
		log.Printf("[WARN] cache get %s: %v", key, err)
	}

	series, err := c.Fetcher.FetchHistory(ctx, symbol, period, interval)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(series); err != nil {
		log.Printf("[WARN] encode cache entry %s: %v", key, err)
	} else if err := c.Cache.Set(ctx, key, raw, c.TTL); err != nil {
		log.Printf("[WARN] cache set %s: %v", key, err)
	}
	return series, nil
}

func (c *CachedFetcher) FetchFacts(ctx context.Context, symbol string) (*model.StockFacts, error) {
	return c.Fetcher.FetchFacts(ctx, symbol)
}
