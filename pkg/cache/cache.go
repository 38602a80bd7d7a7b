package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
	// ErrLockNotHeld is returned by Unlock when the token no longer owns the
	// lock, typically because it expired and was taken by someone else.
	ErrLockNotHeld = errors.New("cache: lock not held")
)

// Service defines cache operations interface. Entries never expire; only
// locks carry a time to live. TryLock returns an owner token on success,
// and Unlock releases the lock only for that token.
type Service interface {
	Set(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, key, token string) error
	Close() error
}

// GetJSON retrieves key and unmarshals it into a T.
func GetJSON[T any](ctx context.Context, c Service, key string) (T, error) {
	var obj T
	data, err := c.Get(ctx, key)
	if err != nil {
		return obj, err
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return obj, err
	}
	return obj, nil
}

// SetJSON marshals value and stores it under key.
func SetJSON(ctx context.Context, c Service, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data)
}
