package memory

import (
	"context"
	"sync"

	"github.com/sp3dr4/qrlink/internal/domain"
)

// LinkRepository keeps links in process memory. List returns links in
// insertion order.
type LinkRepository struct {
	links map[string]*domain.Link
	order []string
	mu    sync.RWMutex
}

func NewLinkRepository() *LinkRepository {
	return &LinkRepository{
		links: make(map[string]*domain.Link),
	}
}

func (r *LinkRepository) Create(_ context.Context, link *domain.Link) (*domain.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.links[link.ID]; exists {
		return nil, domain.ErrIDCollision
	}

	stored := *link
	r.links[link.ID] = &stored
	r.order = append(r.order, link.ID)

	created := stored
	return &created, nil
}

func (r *LinkRepository) List(_ context.Context) ([]domain.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	links := make([]domain.Link, 0, len(r.order))
	for _, id := range r.order {
		links = append(links, *r.links[id])
	}
	return links, nil
}

func (r *LinkRepository) FindByID(_ context.Context, id string) (*domain.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	link, exists := r.links[id]
	if !exists {
		return nil, domain.ErrLinkNotFound
	}

	found := *link
	return &found, nil
}

func (r *LinkRepository) UpdateDestination(_ context.Context, id, destination string) (*domain.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	link, exists := r.links[id]
	if !exists {
		return nil, domain.ErrLinkNotFound
	}

	link.Destination = destination

	updated := *link
	return &updated, nil
}

func (r *LinkRepository) Close() error {
	return nil
}

func (r *LinkRepository) HealthCheck(_ context.Context) error {
	return nil
}
