package domain

import "context"

// LinkRepository persists links. Create must fail with ErrIDCollision when the
// id is taken and must never overwrite an existing row.
type LinkRepository interface {
	Create(ctx context.Context, link *Link) (*Link, error)
	List(ctx context.Context) ([]Link, error)
	FindByID(ctx context.Context, id string) (*Link, error)
	UpdateDestination(ctx context.Context, id, destination string) (*Link, error)
	Close() error
	HealthCheck(ctx context.Context) error
}

// IDGenerator produces candidate short identifiers. Candidates must be
// URL-path-safe; uniqueness is settled by the repository.
type IDGenerator interface {
	Generate() (string, error)
}
