package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDedupTTL = 24 * time.Hour

// DedupChecker provides idempotency checks backed by Redis.
// Key format: dedup:<customer_cpf>:<sold_at_unix>:<total>
type DedupChecker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
// Marks expire after ttl, or after defaultDedupTTL when ttl <= 0.
func NewDedupChecker(client *redis.Client, ttl time.Duration) *DedupChecker {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &DedupChecker{client: client, ttl: ttl}
}

// IsDuplicate reports whether the sale identified by key was already ingested.
func (d *DedupChecker) IsDuplicate(ctx context.Context, key string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that the sale identified by key has been ingested.
func (d *DedupChecker) Mark(ctx context.Context, key string) error {
	return d.client.Set(ctx, d.key(key), "1", d.ttl).Err()
}

func (d *DedupChecker) key(key string) string {
	return "dedup:" + key
}
