package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis はRedisをバックエンドとするキャッシュ実装。
type Redis struct {
	client *redis.Client
}

// NewRedis はRedisキャッシュを生成する。
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get はキーに対応する値を返す。未登録の場合はnilを返す。
func (c *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache key %q: %w", key, err)
	}
	return value, nil
}

// Set は値をTTL付きで保存する。
func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %q: %w", key, err)
	}
	return nil
}

// Invalidate は指定キーを削除する。
func (c *Redis) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache key %q: %w", key, err)
	}
	return nil
}

// InvalidatePrefix は指定プレフィックスで始まる全キーをSCANで列挙して削除する。
func (c *Redis) InvalidatePrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to invalidate cache key %q: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache prefix %q: %w", prefix, err)
	}
	return nil
}

// compile-time interface check
var _ Cache = (*Redis)(nil)
