package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"creator-marketplace/internal/models"
)

const tradesKey = "marketplace:trades"

// Connect initializes a Redis client from URL or host:port input
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// TradeCache caches the trade catalogue. A nil TradeCache always misses.
type TradeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTradeCache(client *redis.Client, ttl time.Duration) *TradeCache {
	if client == nil {
		return nil
	}
	return &TradeCache{client: client, ttl: ttl}
}

// Get returns the cached trades, or nil on a miss
func (c *TradeCache) Get(ctx context.Context) ([]models.Trade, error) {
	if c == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, tradesKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var trades []models.Trade
	if err := json.Unmarshal(raw, &trades); err != nil {
		return nil, fmt.Errorf("decode cached trades: %w", err)
	}
	return trades, nil
}

func (c *TradeCache) Set(ctx context.Context, trades []models.Trade) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(trades)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, tradesKey, raw, c.ttl).Err()
}

func (c *TradeCache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, tradesKey).Err()
}
