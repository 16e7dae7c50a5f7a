package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/sp3dr4/qrlink/internal/domain"
)

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Create(ctx context.Context, link *domain.Link) (*domain.Link, error) {
	query := `INSERT INTO urls (id, url) VALUES (?, ?) RETURNING id, url`

	var created domain.Link
	if err := r.db.GetContext(ctx, &created, query, link.ID, link.Destination); err != nil {
		return nil, r.handleSQLiteError(err, "create link")
	}

	slog.Debug("Link created", "id", created.ID)
	return &created, nil
}

// List returns links in insertion (rowid) order.
func (r *LinkRepository) List(ctx context.Context) ([]domain.Link, error) {
	links := []domain.Link{}
	if err := r.db.SelectContext(ctx, &links, `SELECT id, url FROM urls ORDER BY rowid`); err != nil {
		return nil, r.handleSQLiteError(err, "list links")
	}
	return links, nil
}

func (r *LinkRepository) FindByID(ctx context.Context, id string) (*domain.Link, error) {
	var link domain.Link
	if err := r.db.GetContext(ctx, &link, `SELECT id, url FROM urls WHERE id = ?`, id); err != nil {
		return nil, r.handleSQLiteError(err, "find link by id")
	}
	return &link, nil
}

func (r *LinkRepository) UpdateDestination(ctx context.Context, id, destination string) (*domain.Link, error) {
	query := `UPDATE urls SET url = ? WHERE id = ? RETURNING id, url`

	var link domain.Link
	if err := r.db.GetContext(ctx, &link, query, destination, id); err != nil {
		return nil, r.handleSQLiteError(err, "update link destination")
	}

	slog.Debug("Link destination updated", "id", id)
	return &link, nil
}

// handleSQLiteError converts SQLite-specific errors to domain errors
func (r *LinkRepository) handleSQLiteError(err error, operation string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrLinkNotFound
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return domain.ErrIDCollision
		}
		slog.Error("SQLite error",
			"operation", operation,
			"code", int(sqliteErr.Code),
			"extended_code", int(sqliteErr.ExtendedCode),
			"message", sqliteErr.Error(),
		)
		return fmt.Errorf("%s: database error: %w", operation, err)
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
