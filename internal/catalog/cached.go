package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeySubjects = "catalog:subjects"
	cacheKeyGrades   = "catalog:grades"
)

// CachedStore wraps a Store with a Redis read-through cache for the subject
// and grade lists. Those are immutable reference data, so there is no
// invalidation; entries simply expire. Cache failures degrade to direct
// store reads.
type CachedStore struct {
	Store
	client *redis.Client
	ttl    time.Duration
}

// NewCachedStore wraps store with a Redis cache. A zero ttl defaults to five
// minutes.
func NewCachedStore(store Store, client *redis.Client, ttl time.Duration) *CachedStore {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &CachedStore{Store: store, client: client, ttl: ttl}
}

func (c *CachedStore) ListSubjects(ctx context.Context) ([]Subject, error) {
	var subjects []Subject
	if c.readCached(ctx, cacheKeySubjects, &subjects) {
		return subjects, nil
	}
	subjects, err := c.Store.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}
	c.writeCached(ctx, cacheKeySubjects, subjects)
	return subjects, nil
}

func (c *CachedStore) ListGrades(ctx context.Context) ([]Grade, error) {
	var grades []Grade
	if c.readCached(ctx, cacheKeyGrades, &grades) {
		return grades, nil
	}
	grades, err := c.Store.ListGrades(ctx)
	if err != nil {
		return nil, err
	}
	c.writeCached(ctx, cacheKeyGrades, grades)
	return grades, nil
}

func (c *CachedStore) readCached(ctx context.Context, key string, dest any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Debug("catalog cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		slog.Warn("catalog cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (c *CachedStore) writeCached(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Debug("catalog cache write failed", "key", key, "error", err)
	}
}
