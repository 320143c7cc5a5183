package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/cashback-api/cashback-system/internal/core/domain"
)

// LoadCategories reads the category set stored under key and returns an
// immutable snapshot. Members that do not match the category name pattern
// are kept; NewProduct rejects them on use.
func LoadCategories(ctx context.Context, client *redis.Client, key string) (domain.Categories, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	names, err := client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("load categories %q: %w", key, err)
	}
	return domain.NewCategories(names...), nil
}
