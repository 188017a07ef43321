package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

const tagPrefix = "tag:"

// Cache is a tagged JSON cache. A nil *Cache or one without store is a valid, always missing cache.
type Cache struct {
	store  Store
	prefix string
}

// New creates a cache on store. Every key and tag is namespaced with prefix.
func New(store Store, prefix string) *Cache {
	return &Cache{store: store, prefix: prefix}
}

// Enabled reports whether the cache has a backing store.
func (c *Cache) Enabled() bool {
	return c != nil && c.store != nil
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

func (c *Cache) tagKey(tag string) string {
	return c.prefix + tagPrefix + tag
}

// Get decodes the value stored under key into dst. It reports false on a miss, on a store
// failure and on an undecodable value.
func (c *Cache) Get(ctx context.Context, key string, dst any) bool {
	if !c.Enabled() {
		return false
	}

	raw, err := c.store.Get(ctx, c.key(key))
	if err != nil {
		if errors.Is(err, ErrMiss) {
			observe("get", "miss")
			return false
		}

		observe("get", "error")
		log.Warn().Err(err).Str("key", key).Msg("cache get failed, falling back to live lookup")

		return false
	}

	if err = json.Unmarshal(raw, dst); err != nil {
		observe("get", "error")
		log.Warn().Err(err).Str("key", key).Msg("cache value undecodable, dropping it")
		c.Invalidate(ctx, key)

		return false
	}

	observe("get", "hit")

	return true
}

// Set stores value under key. A ttl <= 0 means no expiry. Failures are logged only.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if !c.Enabled() {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		observe("set", "error")
		log.Warn().Err(err).Str("key", key).Msg("cache value not encodable")

		return
	}

	if err = c.store.Set(ctx, c.key(key), raw, ttl); err != nil {
		observe("set", "error")
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")

		return
	}

	observe("set", "ok")
}

// SetTagged stores value like Set and registers key as a member of every tag. The tag set
// lives at least as long as ttl.
func (c *Cache) SetTagged(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) {
	if !c.Enabled() {
		return
	}

	c.Set(ctx, key, value, ttl)

	member := c.key(key)
	for _, tag := range tags {
		if err := c.addToTag(ctx, c.tagKey(tag), member, ttl); err != nil {
			observe("tag", "error")
			log.Warn().Err(err).Str("key", key).Str("tag", tag).Msg("cache tag registration failed")

			continue
		}

		observe("tag", "ok")
	}
}

func (c *Cache) addToTag(ctx context.Context, tagKey, member string, ttl time.Duration) error {
	current, err := c.store.TTL(ctx, tagKey)
	if err != nil {
		return err
	}

	if err = c.store.SAdd(ctx, tagKey, member); err != nil {
		return err
	}

	switch {
	case ttl <= 0:
		// a member without expiry keeps the set forever
		return c.store.Persist(ctx, tagKey)
	case current == TTLNoExpiry:
		return nil
	case current == TTLNoKey || current < ttl:
		return c.store.Expire(ctx, tagKey, ttl)
	}

	return nil
}

// Invalidate deletes keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}

	if err := c.store.Del(ctx, full...); err != nil {
		observe("invalidate", "error")
		log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidate failed")

		return
	}

	observe("invalidate", "ok")
}

// InvalidateByTag deletes every key registered under each tag, then the tag sets themselves.
// Tags without members are a no-op.
func (c *Cache) InvalidateByTag(ctx context.Context, tags ...string) {
	if !c.Enabled() {
		return
	}

	for _, tag := range tags {
		tagKey := c.tagKey(tag)

		members, err := c.store.SMembers(ctx, tagKey)
		if err != nil {
			observe("invalidate_tag", "error")
			log.Warn().Err(err).Str("tag", tag).Msg("cache tag lookup failed")

			continue
		}

		if err = c.store.Del(ctx, append(members, tagKey)...); err != nil {
			observe("invalidate_tag", "error")
			log.Warn().Err(err).Str("tag", tag).Int("members", len(members)).Msg("cache tag invalidate failed")

			continue
		}

		observe("invalidate_tag", "ok")
	}
}
