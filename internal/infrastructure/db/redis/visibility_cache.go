package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/callsheet/production-system/internal/api/metrics"
	"github.com/callsheet/production-system/internal/core/domain"
)

const visibilityTTL = 30 * time.Second

// VisibilityCache stores per-user visible production listings in Redis.
// Key format: visible:<user_id>; value is the JSON-encoded slice. Entries are
// short-lived and invalidated on every membership change that can alter the
// keyed user's listing, so the store stays authoritative.
type VisibilityCache struct {
	client *redis.Client
}

// NewVisibilityCache wraps the given Redis client.
func NewVisibilityCache(client *redis.Client) *VisibilityCache {
	return &VisibilityCache{client: client}
}

// Get returns the cached listing and whether one was present. The cached
// copies are read-only views; the concurrency version field is not carried.
func (c *VisibilityCache) Get(ctx context.Context, userID string) ([]*domain.Production, bool, error) {
	val, err := c.client.Get(ctx, c.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		metrics.VisibilityCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("visibility cache get: %w", err)
	}

	var productions []*domain.Production
	if err := json.Unmarshal([]byte(val), &productions); err != nil {
		return nil, false, fmt.Errorf("visibility cache decode: %w", err)
	}
	metrics.VisibilityCacheTotal.WithLabelValues("hit").Inc()
	return productions, true, nil
}

func (c *VisibilityCache) Set(ctx context.Context, userID string, productions []*domain.Production) error {
	b, err := json.Marshal(productions)
	if err != nil {
		return fmt.Errorf("visibility cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(userID), b, visibilityTTL).Err(); err != nil {
		return fmt.Errorf("visibility cache set: %w", err)
	}
	return nil
}

func (c *VisibilityCache) Invalidate(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = c.key(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("visibility cache invalidate: %w", err)
	}
	return nil
}

func (c *VisibilityCache) key(userID string) string {
	return "visible:" + userID
}
