package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// TableCache keeps loaded tables in Redis keyed by sourceId, so reselecting
// a recently loaded source skips the export fetch. Tables are immutable for
// a given sourceId, so plain TTL expiry is the only invalidation needed.
type TableCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewTableCache(client *redisv9.Client, ttl time.Duration) *TableCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TableCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *TableCache) Get(ctx context.Context, sourceID string) (*Table, bool, error) {
	raw, err := c.client.Get(ctx, c.key(sourceID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get table failed: %w", err)
	}

	var table Table
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached table failed: %w", err)
	}
	return &table, true, nil
}

func (c *TableCache) Set(ctx context.Context, sourceID string, table *Table) error {
	payload, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("marshal table cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(sourceID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set table failed: %w", err)
	}
	return nil
}

func (c *TableCache) Delete(ctx context.Context, sourceID string) error {
	if err := c.client.Del(ctx, c.key(sourceID)).Err(); err != nil {
		return fmt.Errorf("redis delete table failed: %w", err)
	}
	return nil
}

func (c *TableCache) key(sourceID string) string {
	return fmt.Sprintf("dataset:table:%s", sourceID)
}
