package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
	"github.com/pawpals/pawpals-api/internal/pkg/logger"
)

const keyPrefixEntity = "entity:"

// CachedResolver is a read-through Redis cache in front of another resolver. Misses
// are not cached, so a newly created entity resolves immediately.
type CachedResolver struct {
	inner Resolver
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedResolver wraps inner. A nil client disables caching.
func NewCachedResolver(inner Resolver, client *redis.Client, ttl time.Duration) *CachedResolver {
	return &CachedResolver{inner: inner, redis: client, ttl: ttl}
}

func cacheKey(target relation.Target) string {
	return keyPrefixEntity + target.String()
}

func (c *CachedResolver) Resolve(ctx context.Context, target relation.Target) (*Descriptor, error) {
	if c.redis == nil {
		return c.inner.Resolve(ctx, target)
	}

	key := cacheKey(target)
	cached, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var d Descriptor
		if err := json.Unmarshal(cached, &d); err == nil {
			return &d, nil
		}
	case !errors.Is(err, redis.Nil):
		logger.LogWarn(ctx, "Resolver cache read failed", "target", target.String(), "error", err.Error())
	}

	d, err := c.inner.Resolve(ctx, target)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(d); err == nil {
		if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			logger.LogWarn(ctx, "Resolver cache write failed", "target", target.String(), "error", err.Error())
		}
	}
	return d, nil
}

// Invalidate drops target from the cache.
func (c *CachedResolver) Invalidate(ctx context.Context, target relation.Target) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Del(ctx, cacheKey(target)).Err()
}
