package sqlite

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the SQLite file at path, creating its directory if needed.
// Writes are serialized through a single connection.
func Open(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	// SQLite decodes %XX in URI filenames, so ? and # in path stay part of it.
	file := (&url.URL{Path: path}).EscapedPath()
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", file)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}
	db.SetMaxOpenConns(1)

	return db, nil
}
