package aifill

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/commhub/community-settings/internal/settings/domain"
)

const cacheKeyPrefix = "aifill:" // aifill:{project_id}:{sha256(names)}

// Cache keeps model answers in Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// cacheKey is stable under reordering and case of the requested names.
func cacheKey(projectID string, empty []string) string {
	names := make([]string, 0, len(empty))
	for _, n := range empty {
		names = append(names, key(n))
	}
	slices.Sort(names)
	sum := sha256.Sum256([]byte(strings.Join(names, "\n")))
	return cacheKeyPrefix + projectID + ":" + hex.EncodeToString(sum[:])
}

// Get reports ok=false on a miss.
func (c *Cache) Get(ctx context.Context, projectID string, empty []string) (domain.AiFillResult, bool, error) {
	data, err := c.client.Get(ctx, cacheKey(projectID, empty)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.AiFillResult{}, false, nil
	}
	if err != nil {
		return domain.AiFillResult{}, false, fmt.Errorf("failed to read cache: %w", err)
	}

	var res domain.AiFillResult
	if err := json.Unmarshal(data, &res); err != nil {
		return domain.AiFillResult{}, false, fmt.Errorf("failed to unmarshal cached answer: %w", err)
	}
	return res, true, nil
}

func (c *Cache) Set(ctx context.Context, projectID string, empty []string, res domain.AiFillResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(projectID, empty), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Invalidate drops every cached answer of a project, e.g. after its notes changed.
func (c *Cache) Invalidate(ctx context.Context, projectID string) error {
	iter := c.client.Scan(ctx, 0, cacheKeyPrefix+projectID+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
