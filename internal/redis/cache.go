package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// ViewCache is a generic JSON-backed Redis cache for read model projections.
// A nil *ViewCache is valid and behaves as an always-empty cache, so callers
// can run without Redis.
type ViewCache[T any] struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewViewCache creates a ViewCache backed by the provided Redis client.
// A ttl of 0 stores keys without expiry.
func NewViewCache[T any](client *goredis.Client, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, ttl: ttl}
}

// Get returns (nil, false) on any miss or deserialisation error.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != goredis.Nil {
			log.WithError(err).WithField("key", key).Warn("view cache read error")
		}
		return nil, false
	}
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		log.WithError(err).WithField("key", key).Warn("view cache decode error")
		return nil, false
	}
	return &v, true
}

// Set errors are logged rather than returned; a cache write miss is non-fatal.
func (c *ViewCache[T]) Set(ctx context.Context, key string, value *T) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("view cache marshal error")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.WithError(err).WithField("key", key).Warn("view cache write error")
	}
}

// SetIfAbsent stores value only when key holds nothing and reports whether
// it did. Failures count as not stored.
func (c *ViewCache[T]) SetIfAbsent(ctx context.Context, key string, value *T) bool {
	if c == nil {
		return false
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("view cache marshal error")
		return false
	}
	stored, err := c.client.SetNX(ctx, key, data, c.ttl).Result()
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("view cache write error")
		return false
	}
	return stored
}

func (c *ViewCache[T]) Delete(ctx context.Context, key string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.WithError(err).WithField("key", key).Warn("view cache delete error")
	}
}
