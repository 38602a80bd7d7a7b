package cache

import (
	"context"
	"errors"
	"time"
)

// LayeredCache fronts a RedisCache with a small MemoryCache. Writes go
// through to Redis first; locks live only in Redis so that every process
// agrees on them.
type LayeredCache struct {
	l1 *MemoryCache
	l2 *RedisCache
}

// NewLayeredCache keeps up to l1Size entries in process.
func NewLayeredCache(l2 *RedisCache, l1Size int) *LayeredCache {
	return &LayeredCache{l1: NewMemoryCache(l1Size), l2: l2}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value []byte) error {
	if err := lc.l2.Set(ctx, key, value); err != nil {
		return err
	}
	return lc.l1.Set(ctx, key, value)
}

func (lc *LayeredCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, err := lc.l1.Get(ctx, key); err == nil {
		return v, nil
	}
	v, err := lc.l2.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	_ = lc.l1.Set(ctx, key, v)
	return v, nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.l1.Delete(ctx, keys...)
	return lc.l2.Delete(ctx, keys...)
}

func (lc *LayeredCache) Exists(ctx context.Context, key string) (bool, error) {
	if ok, _ := lc.l1.Exists(ctx, key); ok {
		return true, nil
	}
	return lc.l2.Exists(ctx, key)
}

func (lc *LayeredCache) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	return lc.l2.TryLock(ctx, key, ttl)
}

func (lc *LayeredCache) Unlock(ctx context.Context, key, token string) error {
	return lc.l2.Unlock(ctx, key, token)
}

func (lc *LayeredCache) Close() error {
	return errors.Join(lc.l1.Close(), lc.l2.Close())
}
