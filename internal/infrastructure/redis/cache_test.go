package redis

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sp3dr4/qrlink/internal/domain"
)

// unreachableCache points at a port nothing listens on, so every command fails fast.
func unreachableCache(t *testing.T) *LinkCache {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	return NewLinkCache(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLinkCache_BuildKey(t *testing.T) {
	c := &LinkCache{}
	assert.Equal(t, "link:abc123", c.buildKey("abc123"))
}

func TestLinkCache_UnreachableServer(t *testing.T) {
	c := unreachableCache(t)
	ctx := context.Background()

	link, err := c.Get(ctx, "abc123")
	require.Error(t, err)
	assert.Nil(t, link)

	assert.Error(t, c.Set(ctx, &domain.Link{ID: "abc123", Destination: "https://example.com"}, time.Minute))
	added, err := c.Add(ctx, &domain.Link{ID: "abc123", Destination: "https://example.com"}, time.Minute)
	assert.Error(t, err)
	assert.False(t, added)
	assert.Error(t, c.Delete(ctx, "abc123"))
	assert.Error(t, c.Ping(ctx))
}
