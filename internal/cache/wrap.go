package cache

import (
	"context"
	"time"
)

// Loader loads the value identified by args. found is false when no such value exists.
type Loader[A, V any] func(ctx context.Context, args A) (value V, found bool, err error)

// Options configures Cacheable.
type Options[A any] struct {
	// Key derives the cache key from the arguments. Required.
	Key func(A) string
	// Tags derives the tags the entry is registered under. Optional.
	Tags func(A) []string
	// TTL of the entry, <= 0 means no expiry.
	TTL time.Duration
}

// Cacheable returns a read-through version of load. Hits skip load entirely. Found values are
// stored after a miss. Absent values and errors are never cached.
func Cacheable[A, V any](c *Cache, opts Options[A], load Loader[A, V]) Loader[A, V] {
	return func(ctx context.Context, args A) (V, bool, error) {
		key := opts.Key(args)

		var cached V
		if c.Get(ctx, key, &cached) {
			return cached, true, nil
		}

		value, found, err := load(ctx, args)
		if err != nil || !found {
			return value, found, err
		}

		if opts.Tags != nil {
			c.SetTagged(ctx, key, value, opts.TTL, opts.Tags(args)...)
		} else {
			c.Set(ctx, key, value, opts.TTL)
		}

		return value, true, nil
	}
}

// InvalidateOptions configures Invalidating.
type InvalidateOptions[A any] struct {
	Keys func(A) []string
	Tags func(A) []string
}

// Invalidating returns a version of write that, after write ran, drops the keys and tags derived
// from its arguments. Invalidation also happens when write fails since a failed write may still
// have been partially applied.
func Invalidating[A any](c *Cache, opts InvalidateOptions[A], write func(ctx context.Context, args A) error) func(context.Context, A) error {
	return func(ctx context.Context, args A) error {
		err := write(ctx, args)

		if opts.Keys != nil {
			c.Invalidate(ctx, opts.Keys(args)...)
		}

		if opts.Tags != nil {
			c.InvalidateByTag(ctx, opts.Tags(args)...)
		}

		return err
	}
}
