// Package cache implements a tagged read-through cache over an external key-value store.
//
// Values are stored as JSON. A tagged entry is also registered as a member of one set per tag,
// which allows invalidating every key that ever carried the tag without knowing the keys.
// Tag sets expire together with their longest-lived member.
//
// The cache is an optimization only. Every store failure is logged and swallowed: reads degrade
// to a miss and writes are dropped, so callers fall back to their live lookup.
//
// Cacheable and Invalidating wrap plain functions to get read-through and write-then-invalidate
// behavior:
//
//	find := cache.Cacheable(c, cache.Options[uint]{
//	    Key:  func(id uint) string { return fmt.Sprintf("role:%d", id) },
//	    Tags: func(id uint) []string { return []string{fmt.Sprintf("role:%d", id)} },
//	    TTL:  time.Minute,
//	}, store.Load)
package cache
