package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/itaipu/go-shop/internal/currency/domain"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: time.Minute,
	}
}

// RedisCache keeps quotes for a short window. Exchange rates go stale fast,
// so the TTL is a minute plus jitter rather than the hours a catalog cache
// could afford.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context, from, to string) (*domain.CurrencyQuote, error) {
	data, err := r.client.Get(ctx, cacheKey(from, to)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var quote domain.CurrencyQuote
	if err2 := json.Unmarshal(data, &quote); err2 != nil {
		return nil, fmt.Errorf("unmarshal quote failed: %w", err2)
	}

	return &quote, nil
}

func (r RedisCache) Set(ctx context.Context, from, to string, quote *domain.CurrencyQuote) error {
	jsonQuote, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("marshal quote failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(30)) * time.Second
	ttl := r.baseTTL + jitter
	ret := r.client.Set(ctx, cacheKey(from, to), string(jsonQuote), ttl)
	if ret.Err() != nil {
		return fmt.Errorf("redis set failed: %w", ret.Err())
	}
	return nil
}

func (r RedisCache) Delete(ctx context.Context, from, to string) error {
	if err := r.client.Del(ctx, cacheKey(from, to)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

func cacheKey(from, to string) string {
	return fmt.Sprintf("quote:%s-%s", from, to)
}
