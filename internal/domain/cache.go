package domain

import (
	"context"
	"time"
)

// LinkCache defines the interface for caching resolved links
type LinkCache interface {
	// Get retrieves a link from cache by its id; (nil, nil) is a miss
	Get(ctx context.Context, id string) (*Link, error)

	// Set stores a link in cache with the specified TTL, replacing any entry
	Set(ctx context.Context, link *Link, ttl time.Duration) error

	// Add stores a link only if no entry exists for its id and reports
	// whether it did. Read-through fills use it so they never replace a
	// newer value written by an update.
	Add(ctx context.Context, link *Link, ttl time.Duration) (bool, error)

	// Delete removes a link from cache
	Delete(ctx context.Context, id string) error

	// Ping checks if the cache is available
	Ping(ctx context.Context) error
}
