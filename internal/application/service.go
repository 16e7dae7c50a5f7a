package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sp3dr4/qrlink/internal/domain"
	"github.com/sp3dr4/qrlink/internal/pkg/logging"
	"github.com/sp3dr4/qrlink/internal/pkg/metrics"
)

const (
	DefaultMaxCreateAttempts = 10
	DefaultCacheTTL          = 10 * time.Minute
)

type Options struct {
	// MaxCreateAttempts bounds id generation retries on collision.
	MaxCreateAttempts int
	CacheTTL          time.Duration
}

// LinkService is the link store and redirect resolver.
type LinkService struct {
	repo        domain.LinkRepository
	cache       domain.LinkCache
	ids         domain.IDGenerator
	metrics     metrics.Registry
	maxAttempts int
	cacheTTL    time.Duration
}

func NewLinkService(
	repo domain.LinkRepository,
	cache domain.LinkCache,
	ids domain.IDGenerator,
	registry metrics.Registry,
	opts Options,
) *LinkService {
	if opts.MaxCreateAttempts <= 0 {
		opts.MaxCreateAttempts = DefaultMaxCreateAttempts
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if registry == nil {
		registry = metrics.NewNoOpRegistry()
	}

	return &LinkService{
		repo:        repo,
		cache:       cache,
		ids:         ids,
		metrics:     registry,
		maxAttempts: opts.MaxCreateAttempts,
		cacheTTL:    opts.CacheTTL,
	}
}

// Create stores destination under a freshly generated id. Generation is
// retried while the repository reports the id as taken.
func (s *LinkService) Create(ctx context.Context, destination string) (*domain.Link, error) {
	logger := logging.FromContext(ctx)

	normalized, err := domain.NormalizeDestination(destination)
	if err != nil {
		return nil, fmt.Errorf("create link: %w", err)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		id, err := s.ids.Generate()
		if err != nil {
			return nil, fmt.Errorf("create link: %w", err)
		}

		link, err := s.repo.Create(ctx, &domain.Link{ID: id, Destination: normalized})
		if err == nil {
			s.metrics.IncLinksCreated()
			logger.Info("Link created", "id", link.ID, "url", link.Destination, "attempts", attempt)
			return link, nil
		}

		if !errors.Is(err, domain.ErrIDCollision) {
			return nil, fmt.Errorf("create link: %w", err)
		}

		s.metrics.IncIDCollisions()
		logger.Warn("Generated link id already taken, retrying", "id", id, "attempt", attempt)
	}

	return nil, fmt.Errorf("create link after %d attempts: %w", s.maxAttempts, domain.ErrIDSpaceExhausted)
}

func (s *LinkService) List(ctx context.Context) ([]domain.Link, error) {
	links, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

func (s *LinkService) Get(ctx context.Context, id string) (*domain.Link, error) {
	link, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get link %q: %w", id, err)
	}
	return link, nil
}

// Update replaces the destination of an existing link. Empty input is
// rejected before the id is looked up.
func (s *LinkService) Update(ctx context.Context, id, destination string) (*domain.Link, error) {
	logger := logging.FromContext(ctx)

	normalized, err := domain.NormalizeDestination(destination)
	if err != nil {
		return nil, fmt.Errorf("update link %q: %w", id, err)
	}

	link, err := s.repo.UpdateDestination(ctx, id, normalized)
	if err != nil {
		return nil, fmt.Errorf("update link %q: %w", id, err)
	}

	// Write through so a concurrent resolve holding the old row cannot
	// repopulate the cache: its Add finds this entry and backs off.
	if err := s.cache.Set(ctx, link, s.cacheTTL); err != nil {
		logger.Warn("Failed to refresh cached link, invalidating", "id", id, "error", err)
		if err := s.cache.Delete(ctx, id); err != nil {
			logger.Warn("Failed to invalidate cached link", "id", id, "error", err)
		}
	}

	s.metrics.IncLinksUpdated()
	logger.Info("Link updated", "id", link.ID, "url", link.Destination)
	return link, nil
}

// Resolve returns the destination for id, consulting the cache first.
// Cache failures never fail the lookup.
func (s *LinkService) Resolve(ctx context.Context, id string) (string, error) {
	logger := logging.FromContext(ctx)

	cached, err := s.cache.Get(ctx, id)
	switch {
	case err != nil:
		s.metrics.IncCacheLookups(metrics.CacheError)
		logger.Warn("Cache lookup failed, falling back to repository", "id", id, "error", err)
	case cached != nil:
		s.metrics.IncCacheLookups(metrics.CacheHit)
		s.metrics.IncRedirects(metrics.OutcomeResolved)
		return cached.Destination, nil
	default:
		s.metrics.IncCacheLookups(metrics.CacheMiss)
	}

	link, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			s.metrics.IncRedirects(metrics.OutcomeNotFound)
		} else {
			s.metrics.IncRedirects(metrics.OutcomeError)
		}
		return "", fmt.Errorf("resolve link %q: %w", id, err)
	}

	if _, err := s.cache.Add(ctx, link, s.cacheTTL); err != nil {
		logger.Warn("Failed to cache link", "id", id, "error", err)
	}

	s.metrics.IncRedirects(metrics.OutcomeResolved)
	return link.Destination, nil
}

// HealthCheck reports whether the repository and cache are reachable.
func (s *LinkService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("repository: %w", err)
	}
	if err := s.cache.Ping(ctx); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}
