// Package redis caches resolved destinations in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sp3dr4/qrlink/internal/domain"
)

const keyPrefix = "link:"

// LinkCache keeps one plain string per link: "link:<id>" -> destination.
type LinkCache struct {
	client *redis.Client
	logger *slog.Logger
}

func NewLinkCache(client *redis.Client, logger *slog.Logger) *LinkCache {
	return &LinkCache{
		client: client,
		logger: logger,
	}
}

// Get returns (nil, nil) on a miss.
func (c *LinkCache) Get(ctx context.Context, id string) (*domain.Link, error) {
	key := c.buildKey(id)

	destination, err := c.client.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		c.logger.Error("Failed to get from cache", "key", key, "error", err)
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	case destination == "":
		// Never written by Set; treat as a miss so the repository answers.
		return nil, nil
	}

	return &domain.Link{ID: id, Destination: destination}, nil
}

func (c *LinkCache) Set(ctx context.Context, link *domain.Link, ttl time.Duration) error {
	key := c.buildKey(link.ID)

	if err := c.client.Set(ctx, key, link.Destination, ttl).Err(); err != nil {
		c.logger.Error("Failed to set cache", "key", key, "error", err)
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Add writes the destination only when the key is absent (SET NX).
func (c *LinkCache) Add(ctx context.Context, link *domain.Link, ttl time.Duration) (bool, error) {
	key := c.buildKey(link.ID)

	stored, err := c.client.SetNX(ctx, key, link.Destination, ttl).Result()
	if err != nil {
		c.logger.Error("Failed to add to cache", "key", key, "error", err)
		return false, fmt.Errorf("cache add %s: %w", key, err)
	}
	return stored, nil
}

func (c *LinkCache) Delete(ctx context.Context, id string) error {
	key := c.buildKey(id)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Error("Failed to delete from cache", "key", key, "error", err)
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

func (c *LinkCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *LinkCache) buildKey(id string) string {
	return keyPrefix + id
}
