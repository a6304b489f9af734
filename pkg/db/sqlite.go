// pkg/db/sqlite.go
package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// NewSQLiteDB opens a SQLite database file, creating parent directories as needed.
// SQLite allows a single writer, so the pool is pinned to one connection and
// callers queue in database/sql instead of failing with SQLITE_BUSY.
func NewSQLiteDB(path string) (*sqlx.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite", path)
	db, err := sqlx.Connect(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	return db, nil
}
