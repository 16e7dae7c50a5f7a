package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sp3dr4/qrlink/internal/domain"
)

func TestMemoryRepository_Create(t *testing.T) {
	repo := NewLinkRepository()
	ctx := context.Background()

	link := &domain.Link{ID: "abc123", Destination: "https://example.com"}

	created, err := repo.Create(ctx, link)
	require.NoError(t, err)
	assert.Equal(t, *link, *created)

	// Same id again must not overwrite
	_, err = repo.Create(ctx, &domain.Link{ID: "abc123", Destination: "https://other.example"})
	assert.ErrorIs(t, err, domain.ErrIDCollision)

	found, err := repo.FindByID(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", found.Destination)
}

func TestMemoryRepository_FindByID(t *testing.T) {
	repo := NewLinkRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Link{ID: "abc123", Destination: "https://example.com"})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", found.Destination)

	// Returned value is a copy
	found.Destination = "https://mutated.example"
	again, err := repo.FindByID(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", again.Destination)

	_, err = repo.FindByID(ctx, "notfound")
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
}

func TestMemoryRepository_List(t *testing.T) {
	repo := NewLinkRepository()
	ctx := context.Background()

	links, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, links)

	for _, id := range []string{"ccc", "aaa", "bbb"} {
		_, err := repo.Create(ctx, &domain.Link{ID: id, Destination: "https://" + id + ".example"})
		require.NoError(t, err)
	}

	links, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, "ccc", links[0].ID)
	assert.Equal(t, "aaa", links[1].ID)
	assert.Equal(t, "bbb", links[2].ID)
}

func TestMemoryRepository_UpdateDestination(t *testing.T) {
	repo := NewLinkRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Link{ID: "abc123", Destination: "https://example.org/page"})
	require.NoError(t, err)

	updated, err := repo.UpdateDestination(ctx, "abc123", "https://example.net")
	require.NoError(t, err)
	assert.Equal(t, "abc123", updated.ID)
	assert.Equal(t, "https://example.net", updated.Destination)

	found, err := repo.FindByID(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.net", found.Destination)

	_, err = repo.UpdateDestination(ctx, "notfound", "https://example.net")
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
}

func TestMemoryRepository_ConcurrentCreateSameID(t *testing.T) {
	repo := NewLinkRepository()
	ctx := context.Background()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)

	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, &domain.Link{ID: "same", Destination: fmt.Sprintf("https://%d.example", i)})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	links, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}
