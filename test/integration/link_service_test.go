package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sp3dr4/qrlink/internal/domain"
	"github.com/sp3dr4/qrlink/internal/infrastructure/migrations"
	redisCache "github.com/sp3dr4/qrlink/internal/infrastructure/redis"
)

func TestLinkService_CreateAndResolve_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare host gets https", "openai.com", "https://openai.com"},
		{"https kept", "https://example.org/page", "https://example.org/page"},
		{"http kept", "http://example.org", "http://example.org"},
		{"whitespace trimmed", "  example.com/a?b=c  ", "https://example.com/a?b=c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := env.Service.Create(ctx, tt.input)
			require.NoError(t, err)
			assert.Len(t, link.ID, 6)
			assert.Equal(t, tt.expected, link.Destination)

			destination, err := env.Service.Resolve(ctx, link.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, destination)
		})
	}
}

func TestLinkService_ListOrder_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)
	ctx := context.Background()

	var created []string
	for _, u := range []string{"one.example", "two.example", "three.example"} {
		link, err := env.Service.Create(ctx, u)
		require.NoError(t, err)
		created = append(created, link.ID)
	}

	links, err := env.Service.List(ctx)
	require.NoError(t, err)
	require.Len(t, links, 3)

	var listed []string
	for _, l := range links {
		listed = append(listed, l.ID)
	}
	assert.ElementsMatch(t, created, listed)
}

func TestLinkService_Update_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)
	ctx := context.Background()

	link, err := env.Service.Create(ctx, "https://example.org/page")
	require.NoError(t, err)

	updated, err := env.Service.Update(ctx, link.ID, "example.net")
	require.NoError(t, err)
	assert.Equal(t, link.ID, updated.ID)
	assert.Equal(t, "https://example.net", updated.Destination)

	destination, err := env.Service.Resolve(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.net", destination)

	_, err = env.Service.Update(ctx, link.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.Service.Update(ctx, "zzzzzz", "example.net")
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
}

func TestLinkService_NotFound_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)
	ctx := context.Background()

	_, err := env.Service.Resolve(ctx, "zzzzzz")
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)

	_, err = env.Service.Get(ctx, "zzzzzz")
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)

	links, err := env.Service.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, links)

	err = env.RedisClient.Get(ctx, "link:zzzzzz").Err()
	assert.Equal(t, redis.Nil, err)
}

func TestLinkRepository_DuplicateID_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)
	ctx := context.Background()

	_, err := env.Repository.Create(ctx, &domain.Link{ID: "dup001", Destination: "https://a.example"})
	require.NoError(t, err)

	_, err = env.Repository.Create(ctx, &domain.Link{ID: "dup001", Destination: "https://b.example"})
	assert.ErrorIs(t, err, domain.ErrIDCollision)

	link, err := env.Repository.FindByID(ctx, "dup001")
	require.NoError(t, err)
	assert.Equal(t, "https://a.example", link.Destination)
}

func TestLinkService_ConcurrentCreate_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)
	ctx := context.Background()

	const workers = 10
	const perWorker = 5

	var (
		mu  sync.Mutex
		ids = make(map[string]struct{})
		wg  sync.WaitGroup
	)
	errs := make(chan error, workers*perWorker)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				link, err := env.Service.Create(ctx, "example.com")
				if err != nil {
					errs <- err
					return
				}
				mu.Lock()
				ids[link.ID] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, ids, workers*perWorker)

	links, err := env.Service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, links, workers*perWorker)
}

func TestLinkService_CacheBehavior_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)
	ctx := context.Background()

	link, err := env.Service.Create(ctx, "https://example.com/cache-test")
	require.NoError(t, err)

	// Creating does not populate the cache.
	err = env.RedisClient.Get(ctx, "link:"+link.ID).Err()
	assert.Equal(t, redis.Nil, err)

	destination, err := env.Service.Resolve(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/cache-test", destination)

	cached, err := env.RedisClient.Get(ctx, "link:"+link.ID).Result()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/cache-test", cached)

	// A write behind the service's back is hidden by the cache until it expires.
	_, err = env.DB.Exec("UPDATE urls SET url = $1 WHERE id = $2", "https://example.com/direct", link.ID)
	require.NoError(t, err)

	destination, err = env.Service.Resolve(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/cache-test", destination)

	require.NoError(t, env.RedisClient.Del(ctx, "link:"+link.ID).Err())

	destination, err = env.Service.Resolve(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/direct", destination)
}

func TestLinkService_CacheRefreshedOnUpdate_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)
	ctx := context.Background()

	link, err := env.Service.Create(ctx, "https://example.com/before")
	require.NoError(t, err)

	_, err = env.Service.Resolve(ctx, link.ID)
	require.NoError(t, err)
	require.NoError(t, env.RedisClient.Get(ctx, "link:"+link.ID).Err())

	_, err = env.Service.Update(ctx, link.ID, "example.com/after")
	require.NoError(t, err)

	cached, err := env.RedisClient.Get(ctx, "link:"+link.ID).Result()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/after", cached)

	destination, err := env.Service.Resolve(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/after", destination)
}

func TestLinkService_ResolveRowInsertedDirectly_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)
	ctx := context.Background()

	_, err := env.DB.Exec("INSERT INTO urls (id, url) VALUES ($1, $2)", "direct", "https://example.com/direct")
	require.NoError(t, err)

	destination, err := env.Service.Resolve(ctx, "direct")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/direct", destination)

	cached, err := env.RedisClient.Get(ctx, "link:direct").Result()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/direct", cached)
}

func TestLinkService_HealthCheck_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)

	assert.NoError(t, env.Service.HealthCheck(context.Background()))
}

func TestLinkCache_AddKeepsExistingEntry_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)
	ctx := context.Background()
	cache := redisCache.NewLinkCache(env.RedisClient, discardLogger())

	added, err := cache.Add(ctx, &domain.Link{ID: "abc123", Destination: "https://new.example"}, time.Minute)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = cache.Add(ctx, &domain.Link{ID: "abc123", Destination: "https://old.example"}, time.Minute)
	require.NoError(t, err)
	assert.False(t, added)

	link, err := cache.Get(ctx, "abc123")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, "https://new.example", link.Destination)
}

func TestMigrationsUp_ReleasesPostgresConnection_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)

	require.NoError(t, migrations.Up(env.DB.DB, migrations.DriverPostgres, discardLogger()))

	assert.Zero(t, env.DB.Stats().InUse)
	assert.NoError(t, env.DB.Ping())
}
