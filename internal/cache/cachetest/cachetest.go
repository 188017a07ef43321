// Package cachetest provides a Redis backed cache for tests.
package cachetest

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/orbitdesk/orbitdesk/internal/cache"
)

// New starts a miniredis server that lives as long as the test and returns a cache on it.
func New(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.New(cache.NewRedisStoreFromClient(client), "test:"), mr
}
