package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-shop-backend.git/internal/redisx"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cart cache miss")

// Cache mirrors a cart for fast reads. Best-effort only: the store stays
// authoritative, and every write path invalidates the mirror.
type Cache interface {
	Lines(ctx context.Context, owner Owner) ([]Line, error)
	Replace(ctx context.Context, owner Owner, lines []Line) error
	Delete(ctx context.Context, owner Owner) error
}

// RedisCache keeps one redis list per owner (cart:{kind}:{id}), each element
// a JSON-encoded line in insertion order.
type RedisCache struct {
	Client *redis.Client
}

func cacheKey(owner Owner) string { return fmt.Sprintf(redisx.KeyCart, owner.Key()) }

func (c *RedisCache) Lines(ctx context.Context, owner Owner) ([]Line, error) {
	vals, err := c.Client.LRange(ctx, cacheKey(owner), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}
	if len(vals) == 0 {
		// redis drops empty lists, so an empty cart always reads as a miss
		return nil, ErrCacheMiss
	}
	out := make([]Line, 0, len(vals))
	for _, v := range vals {
		var l Line
		if err := json.Unmarshal([]byte(v), &l); err != nil {
			return nil, fmt.Errorf("unmarshal cart line: %w", err)
		}
		out = append(out, l)
	}
	return out, nil
}

func (c *RedisCache) Replace(ctx context.Context, owner Owner, lines []Line) error {
	key := cacheKey(owner)
	pipe := c.Client.TxPipeline()
	pipe.Del(ctx, key)
	for _, l := range lines {
		b, err := json.Marshal(l)
		if err != nil {
			return err
		}
		pipe.RPush(ctx, key, b)
	}
	if len(lines) > 0 {
		pipe.Expire(ctx, key, redisx.TTLCart)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis replace: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, owner Owner) error {
	if err := c.Client.Del(ctx, cacheKey(owner)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
