package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache guarda o dashboard serializado por usuário
// TTL: tempo de expiração dos registros
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: c, TTL: ttl}
}

// Key gera a chave Redis do dashboard de um usuário
func Key(userID string) string { return "dashboard:" + userID }

func (r *RedisCache) Get(ctx context.Context, userID string, dst any) (bool, error) {
	b, err := r.Client.Get(ctx, Key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (r *RedisCache) Set(ctx context.Context, userID string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, Key(userID), b, r.TTL).Err()
}

func (r *RedisCache) Invalidate(ctx context.Context, userID string) error {
	return r.Client.Del(ctx, Key(userID)).Err()
}
