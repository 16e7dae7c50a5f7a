package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sp3dr4/qrlink/internal/domain"
)

const (
	uniqueViolation = "23505"
	primaryKeyName  = "urls_pkey"
)

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Create(ctx context.Context, link *domain.Link) (*domain.Link, error) {
	query := `
		INSERT INTO urls (id, url)
		VALUES ($1, $2)
		RETURNING id, url
	`

	var result domain.Link
	err := r.db.QueryRowContext(ctx, query, link.ID, link.Destination).
		Scan(&result.ID, &result.Destination)
	if err != nil {
		return nil, r.handlePostgreSQLError(err, "create link")
	}

	slog.Debug("Link created successfully", "id", result.ID)
	return &result, nil
}

// List orders by id; Postgres heap order is not stable across updates.
func (r *LinkRepository) List(ctx context.Context) ([]domain.Link, error) {
	links := []domain.Link{}
	if err := r.db.SelectContext(ctx, &links, `SELECT id, url FROM urls ORDER BY id`); err != nil {
		return nil, r.handlePostgreSQLError(err, "list links")
	}
	return links, nil
}

func (r *LinkRepository) FindByID(ctx context.Context, id string) (*domain.Link, error) {
	var link domain.Link
	query := `SELECT id, url FROM urls WHERE id = $1`

	if err := r.db.GetContext(ctx, &link, query, id); err != nil {
		return nil, r.handlePostgreSQLError(err, "find link by id")
	}

	return &link, nil
}

func (r *LinkRepository) UpdateDestination(ctx context.Context, id, destination string) (*domain.Link, error) {
	query := `
		UPDATE urls
		SET url = $1
		WHERE id = $2
		RETURNING id, url
	`

	var link domain.Link
	err := r.db.QueryRowContext(ctx, query, destination, id).
		Scan(&link.ID, &link.Destination)
	if err != nil {
		return nil, r.handlePostgreSQLError(err, "update link destination")
	}

	slog.Debug("Link destination updated", "id", id)
	return &link, nil
}

// handlePostgreSQLError converts PostgreSQL-specific errors to domain errors
func (r *LinkRepository) handlePostgreSQLError(err error, operation string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrLinkNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == uniqueViolation && pqErr.Constraint == primaryKeyName {
			return domain.ErrIDCollision
		}

		slog.Error("PostgreSQL error",
			"operation", operation,
			"code", pqErr.Code,
			"message", pqErr.Message,
			"detail", pqErr.Detail,
		)

		switch pqErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: unique constraint violation: %w", operation, err)
		case "23502": // not_null_violation
			return fmt.Errorf("%s: required field %s missing: %w", operation, pqErr.Column, err)
		case "08000", "08003", "08006": // connection errors
			return fmt.Errorf("%s: database connection error: %w", operation, err)
		default:
			return fmt.Errorf("%s: database error [%s]: %w", operation, pqErr.Code, err)
		}
	}

	return fmt.Errorf("%s: %w", operation, err)
}

func (r *LinkRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *LinkRepository) HealthCheck(ctx context.Context) error {
	if r.db == nil {
		return errors.New("database connection is nil")
	}
	return r.db.PingContext(ctx)
}
