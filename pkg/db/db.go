// pkg/db/db.go
package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Driver names as registered with database/sql.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Config holds database connection configuration.
type Config struct {
	Driver   string `toml:"driver"` // "postgres" or "sqlite"
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DBName   string `toml:"name"`
	SSLMode  string `toml:"sslmode"`
	Path     string `toml:"path"` // SQLite database file
}

// Open connects to the configured database and applies the schema.
func Open(cfg Config) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)
	switch cfg.Driver {
	case DriverPostgres, "":
		conn, err = NewPostgresDB(cfg)
	case DriverSQLite:
		conn, err = NewSQLiteDB(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return conn, nil
}

// IsPostgres reports whether the connection talks to PostgreSQL.
func IsPostgres(conn *sqlx.DB) bool {
	return conn != nil && conn.DriverName() == DriverPostgres
}
