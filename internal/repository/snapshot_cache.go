package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmehdipour/superstore-dashboard/internal/model"
	"github.com/redis/go-redis/v9"
)

// SnapshotCache keeps the last computed snapshot in Redis.
type SnapshotCache interface {
	Get(ctx context.Context) (*model.Snapshot, error) // nil, nil on miss
	Set(ctx context.Context, s *model.Snapshot) error
	Delete(ctx context.Context) error
}

type redisSnapshotCache struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewSnapshotCache stores the snapshot under prefix+"snapshot". A zero ttl
// keeps it until invalidated.
func NewSnapshotCache(rdb *redis.Client, prefix string, ttl time.Duration) SnapshotCache {
	if prefix == "" {
		prefix = "dash:"
	}
	return &redisSnapshotCache{rdb: rdb, key: prefix + "snapshot", ttl: ttl}
}

func (c *redisSnapshotCache) Get(ctx context.Context) (*model.Snapshot, error) {
	b, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s model.Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		// stale layout from an older build; treat as a miss
		_ = c.rdb.Del(ctx, c.key).Err()
		return nil, nil
	}
	return &s, nil
}

func (c *redisSnapshotCache) Set(ctx context.Context, s *model.Snapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key, b, c.ttl).Err()
}

func (c *redisSnapshotCache) Delete(ctx context.Context) error {
	return c.rdb.Del(ctx, c.key).Err()
}
