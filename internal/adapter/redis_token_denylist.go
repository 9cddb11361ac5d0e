package adapter

import (
	"context"
	"fmt"
	"time"

	"aptitude-trainer/internal/domain"

	"github.com/redis/go-redis/v9"
)

const denylistKeyPrefix = "auth:denylist:"

// redisTokenDenylist stores revoked refresh-token IDs in Redis, expiring each
// entry when the token itself would expire.
type redisTokenDenylist struct {
	client *redis.Client
}

// NewRedisTokenDenylist creates a TokenDenylist backed by the given client.
func NewRedisTokenDenylist(client *redis.Client) domain.TokenDenylist {
	return &redisTokenDenylist{client: client}
}

func (d *redisTokenDenylist) Deny(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil // already expired, nothing to block
	}
	if err := d.client.Set(ctx, denylistKeyPrefix+tokenID, "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("failed to denylist token: %w", err)
	}
	return nil
}

func (d *redisTokenDenylist) IsDenied(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token denylist: %w", err)
	}
	return n > 0, nil
}
