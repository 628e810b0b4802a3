package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teamforge/identity-service/internal/api/metrics"
	"github.com/teamforge/identity-service/internal/core/domain"
)

const defaultProfileTTL = 5 * time.Minute

// ProfileCache caches public user profiles by wire identifier.
// Key format: profile:<wire_id>. Values are the JSON form of the public
// shape; reads rebuild the shape through its defensive constructor so a
// corrupted or stale entry can never leak a forbidden field.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache creates a ProfileCache wrapping the given Redis client.
// ttl <= 0 selects the default.
func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = defaultProfileTTL
	}
	return &ProfileCache{client: client, ttl: ttl}
}

// Get returns the cached profile, or (nil, nil) on a miss.
func (c *ProfileCache) Get(ctx context.Context, wireID string) (*domain.PublicUser, error) {
	raw, err := c.client.Get(ctx, c.key(wireID)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.ProfileCacheTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile cache get: %w", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("profile cache decode: %w", err)
	}

	pub, err := domain.NewPublicUser(payload)
	if err != nil {
		// Drop entries that no longer pass the outbound boundary check.
		_ = c.client.Del(ctx, c.key(wireID)).Err()
		metrics.ProfileCacheTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}

	metrics.ProfileCacheTotal.WithLabelValues("hit").Inc()
	return &pub, nil
}

// Set stores the profile with the configured TTL.
func (c *ProfileCache) Set(ctx context.Context, user domain.PublicUser) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("profile cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(user.ID), raw, c.ttl).Err()
}

// Invalidate removes the cached profile after an update or deactivation.
func (c *ProfileCache) Invalidate(ctx context.Context, wireID string) error {
	return c.client.Del(ctx, c.key(wireID)).Err()
}

func (c *ProfileCache) key(wireID string) string {
	return "profile:" + wireID
}
