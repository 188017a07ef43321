package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Store.Get when the key does not exist.
var ErrMiss = errors.New("cache: miss")

// TTL sentinels returned by Store.TTL, mirroring the redis protocol.
const (
	TTLNoExpiry time.Duration = -1
	TTLNoKey    time.Duration = -2
)

// Store is the external key-value store the cache runs on.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Persist(ctx context.Context, key string) error
	TTL(ctx context.Context, key string) (time.Duration, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}
