// Package cache is a small JSON read-through cache over Redis used for
// catalog queries whose results change only when the dataset is reloaded
// (genre list, top ranking).
//
// A nil *Cache is valid and always misses, so callers do not need to
// branch on whether Redis is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// KeyPrefix namespaces every key written by this package.
const KeyPrefix = "animedb:"

type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zerolog.Logger
}

func New(client *redis.Client, ttl time.Duration, log *zerolog.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, log: log}
}

// Key joins parts into a namespaced key, e.g. Key("top", 10, 2) => "animedb:top:10:2".
func Key(parts ...any) string {
	k := KeyPrefix
	for i, p := range parts {
		if i > 0 {
			k += ":"
		}
		k += fmt.Sprint(p)
	}
	return k
}

// Remember returns the cached value under key, or calls load and caches its
// result. Redis failures are logged and fall back to load; they never fail
// the call.
func Remember[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		uerr := json.Unmarshal(raw, &v)
		if uerr == nil {
			return v, nil
		}
		c.log.Warn().Err(uerr).Str("key", key).Msg("discarding undecodable cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return v, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return v, nil
}

// Ping checks the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
