package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const PageCachePrefix = "page:cache:"

// PageCache 整页响应缓存，到期由 redis 自己淘汰
type PageCache struct {
	Client *redis.Client
}

func (c *PageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.Client.Get(ctx, PageCachePrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *PageCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return c.Client.Set(ctx, PageCachePrefix+key, payload, ttl).Err()
}

// Clear 扫描前缀删除，不用 KEYS 避免阻塞
func (c *PageCache) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.Client.Scan(ctx, cursor, PageCachePrefix+"*", 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.Client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
