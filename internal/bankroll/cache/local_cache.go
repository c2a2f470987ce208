package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LocalCache é o cache em memória usado quando não há Redis (ex.: SQLite local, betsctl).
// Guarda JSON para ter a mesma semântica de cópia do RedisCache.
type LocalCache struct {
	lru *expirable.LRU[string, []byte]
}

func NewLocalCache(size int, ttl time.Duration) *LocalCache {
	return &LocalCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (c *LocalCache) Get(_ context.Context, userID string, dst any) (bool, error) {
	b, ok := c.lru.Get(Key(userID))
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *LocalCache) Set(_ context.Context, userID string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.lru.Add(Key(userID), b)
	return nil
}

func (c *LocalCache) Invalidate(_ context.Context, userID string) error {
	c.lru.Remove(Key(userID))
	return nil
}

func (c *LocalCache) Len() int { return c.lru.Len() }
