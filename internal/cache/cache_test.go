package cache_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitdesk/orbitdesk/internal/cache"
)

type payload struct {
	Name  string
	Level int
	Tags  []string
}

// setupCache starts a miniredis instance and returns a cache on it.
func setupCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.New(cache.NewRedisStoreFromClient(client), "test:"), mr
}

func TestSetGetRoundTrip(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	want := payload{Name: "owner", Level: 3, Tags: []string{"a", "b"}}
	c.Set(ctx, "k", want, time.Minute)

	var got payload
	require.True(t, c.Get(ctx, "k", &got))
	assert.Equal(t, want, got)

	c.Invalidate(ctx, "k")
	assert.False(t, c.Get(ctx, "k", &got))
}

func TestGetMiss(t *testing.T) {
	c, _ := setupCache(t)

	var got payload
	assert.False(t, c.Get(context.Background(), "missing", &got))
}

func TestSetExpires(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	c.Set(ctx, "k", payload{Name: "x"}, time.Second)
	mr.FastForward(2 * time.Second)

	var got payload
	assert.False(t, c.Get(ctx, "k", &got))
}

func TestInvalidateByTag(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	c.SetTagged(ctx, "k1", payload{Name: "one"}, time.Minute, "t")
	c.SetTagged(ctx, "k2", payload{Name: "two"}, time.Minute, "t", "other")
	c.SetTagged(ctx, "k3", payload{Name: "three"}, time.Minute, "other")

	c.InvalidateByTag(ctx, "t")

	var got payload
	assert.False(t, c.Get(ctx, "k1", &got))
	assert.False(t, c.Get(ctx, "k2", &got))
	assert.True(t, c.Get(ctx, "k3", &got))
	assert.False(t, mr.Exists("test:tag:t"))
}

func TestInvalidateByTagWithoutMembers(t *testing.T) {
	c, _ := setupCache(t)

	assert.NotPanics(t, func() {
		c.InvalidateByTag(context.Background(), "nobody")
	})
}

func TestTagSetLivesAsLongAsLongestMember(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	c.SetTagged(ctx, "k1", payload{}, time.Minute, "t")
	assert.Equal(t, time.Minute, mr.TTL("test:tag:t"))

	c.SetTagged(ctx, "k2", payload{}, 5*time.Minute, "t")
	assert.Equal(t, 5*time.Minute, mr.TTL("test:tag:t"))

	c.SetTagged(ctx, "k3", payload{}, 30*time.Second, "t")
	assert.Equal(t, 5*time.Minute, mr.TTL("test:tag:t"))

	c.SetTagged(ctx, "k4", payload{}, 0, "t")
	assert.Equal(t, time.Duration(0), mr.TTL("test:tag:t"), "a member without expiry keeps the set")
}

func TestStoreFailuresAreSwallowed(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	c.Set(ctx, "k", payload{Name: "before"}, time.Minute)
	mr.SetError("ERR injected failure")

	var got payload

	assert.NotPanics(t, func() {
		assert.False(t, c.Get(ctx, "k", &got))
		c.Set(ctx, "k", payload{Name: "after"}, time.Minute)
		c.SetTagged(ctx, "k", payload{}, time.Minute, "t")
		c.Invalidate(ctx, "k")
		c.InvalidateByTag(ctx, "t")
	})

	mr.SetError("")
	require.True(t, c.Get(ctx, "k", &got))
	assert.Equal(t, "before", got.Name)
}

func TestUndecodableValueIsDropped(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("test:k", "{not json"))

	var got payload
	assert.False(t, c.Get(ctx, "k", &got))
	assert.False(t, mr.Exists("test:k"))
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *cache.Cache

	ctx := context.Background()

	assert.False(t, c.Enabled())
	assert.NotPanics(t, func() {
		c.Set(ctx, "k", 1, time.Minute)
		c.SetTagged(ctx, "k", 1, time.Minute, "t")
		c.Invalidate(ctx, "k")
		c.InvalidateByTag(ctx, "t")
	})

	var got int
	assert.False(t, c.Get(ctx, "k", &got))
}

func TestCacheable(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	calls := 0
	load := func(_ context.Context, id int) (*payload, bool, error) {
		calls++
		if id == 0 {
			return nil, false, nil
		}

		return &payload{Name: "p", Level: id}, true, nil
	}

	find := cache.Cacheable(c, cache.Options[int]{
		Key:  func(id int) string { return "p:" + strconv.Itoa(id) },
		Tags: func(int) []string { return []string{"p"} },
		TTL:  time.Minute,
	}, load)

	v, found, err := find(ctx, 2)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, v.Level)

	v, found, err = find(ctx, 2)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, v.Level)
	assert.Equal(t, 1, calls, "second call must be served from cache")

	_, found, err = find(ctx, 0)
	require.NoError(t, err)
	assert.False(t, found)

	_, _, _ = find(ctx, 0)
	assert.Equal(t, 3, calls, "absent values are not cached")

	c.InvalidateByTag(ctx, "p")

	_, _, _ = find(ctx, 2)
	assert.Equal(t, 4, calls)
}

func TestCacheableErrorNotCached(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	boom := errors.New("db down")
	calls := 0

	find := cache.Cacheable(c, cache.Options[string]{
		Key: func(s string) string { return s },
	}, func(context.Context, string) (string, bool, error) {
		calls++
		return "", false, boom
	})

	_, _, err := find(ctx, "x")
	require.ErrorIs(t, err, boom)

	_, _, err = find(ctx, "x")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestInvalidating(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	c.Set(ctx, "user:1", payload{Name: "u"}, time.Minute)
	c.SetTagged(ctx, "session:1:a", payload{Name: "s"}, time.Minute, "sessions:user:1")

	written := false
	update := cache.Invalidating(c, cache.InvalidateOptions[int]{
		Keys: func(int) []string { return []string{"user:1"} },
		Tags: func(int) []string { return []string{"sessions:user:1"} },
	}, func(context.Context, int) error {
		written = true
		return nil
	})

	require.NoError(t, update(ctx, 1))
	assert.True(t, written)

	var got payload
	assert.False(t, c.Get(ctx, "user:1", &got))
	assert.False(t, c.Get(ctx, "session:1:a", &got))
}
