// Package migrations embeds the schema for every SQL backend and applies it
// with golang-migrate.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// Up applies all pending migrations for the given driver. The *sql.DB stays
// open; callers own it. No pool connection is held once Up returns.
//
// The migrate instance is not closed: both database drivers close the
// *sql.DB they wrap.
func Up(db *sql.DB, driverName string, logger *slog.Logger) error {
	var (
		driver database.Driver
		dir    string
		err    error
	)

	switch driverName {
	case DriverSQLite:
		dir = "sqlite"
		driver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	case DriverPostgres:
		dir = "postgres"
		// postgres.WithInstance would pin a pool connection for the life of
		// the driver; borrow one and hand it back instead.
		ctx := context.Background()
		conn, connErr := db.Conn(ctx)
		if connErr != nil {
			return fmt.Errorf("failed to acquire migration connection: %w", connErr)
		}
		defer func() { _ = conn.Close() }()
		driver, err = postgres.WithConnection(ctx, conn, &postgres.Config{})
	default:
		return fmt.Errorf("unsupported driver: %s", driverName)
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(files, dir)
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	defer func() { _ = source.Close() }()

	m, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Migrations completed successfully", "driver", driverName)
	return nil
}
