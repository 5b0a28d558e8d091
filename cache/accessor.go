package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Accessor serves reads for cacheable entities: cache first, then the
// authoritative store, repopulating the cache on a miss. Every mutation
// path goes through Invalidate or WriteThrough here instead of talking to
// the cache directly.
//
// Cache failures are never fatal: the accessor logs them and falls back
// to the store. Store failures propagate to the caller.
type Accessor struct {
	client Client
	logger *zap.Logger
	sfg    singleflight.Group
}

func NewAccessor(client Client, logger *zap.Logger) *Accessor {
	return &Accessor{client: client, logger: logger}
}

type loadResult[T any] struct {
	value T
	hit   bool
}

// GetOrLoad returns the cached value for key, or loads it from the store
// and caches it with ttl. The returned bool reports hit provenance. A
// not-found from the loader propagates without caching a negative result.
// Concurrent misses for the same key collapse into one store read.
func GetOrLoad[T any](ctx context.Context, a *Accessor, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, bool, error) {
	v, err, _ := a.sfg.Do(key, func() (interface{}, error) {
		data, err := a.client.Get(ctx, key)
		if err == nil {
			var cached T
			if err := json.Unmarshal(data, &cached); err == nil {
				return loadResult[T]{value: cached, hit: true}, nil
			}
			a.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		} else if !errors.Is(err, ErrCacheMiss) {
			a.logger.Warn("cache get failed, falling back to store", zap.String("key", key), zap.Error(err))
		}

		fresh, err := load(ctx)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(fresh); err != nil {
			a.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		} else if err := a.client.Set(ctx, key, data, ttl); err != nil {
			a.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}

		return loadResult[T]{value: fresh, hit: false}, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}

	res := v.(loadResult[T])
	return res.value, res.hit, nil
}

// Invalidate deletes the entry unconditionally. Used whenever the store
// has just been mutated and no fresh value is at hand.
func (a *Accessor) Invalidate(ctx context.Context, key string) {
	if err := a.client.Delete(ctx, key); err != nil {
		a.logger.Warn("cache invalidate failed", zap.String("key", key), zap.Error(err))
	}
}

// WriteThrough repopulates the entry with the freshly-read post-mutation
// value, or deletes it when the entity no longer exists (fresh == nil).
// It runs synchronously in the mutating request path so the next read by
// the same user sees the post-mutation value.
func WriteThrough[T any](ctx context.Context, a *Accessor, key string, ttl time.Duration, fresh *T) {
	if fresh == nil {
		a.Invalidate(ctx, key)
		return
	}
	data, err := json.Marshal(fresh)
	if err != nil {
		a.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		a.Invalidate(ctx, key)
		return
	}
	if err := a.client.Set(ctx, key, data, ttl); err != nil {
		a.logger.Warn("cache write-through failed", zap.String("key", key), zap.Error(err))
		// The entry may still hold the pre-mutation value; drop it so the
		// next read goes to the store.
		a.Invalidate(ctx, key)
	}
}
