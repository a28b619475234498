package database

import (
	"database/sql"
	"fmt"

	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"

	"github.com/math-practice/backend/internal/config"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

type SQLiteDialect struct{}

func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) Name() string       { return "sqlite" }
func (d *SQLiteDialect) DriverName() string { return "sqlite" }

func (d *SQLiteDialect) DSN(cfg config.Database) (string, error) {
	if cfg.URL != "" {
		return cfg.URL, nil
	}
	if cfg.Path == "" {
		return "", fmt.Errorf("DB_PATH is required for sqlite")
	}
	return cfg.Path, nil
}

func (d *SQLiteDialect) RewriteQuery(query string) string {
	return query
}

// ConfigureConnection pins the pool to one connection so the pragmas below
// hold for every query.
func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func (d *SQLiteDialect) MigrationDriver(db *sql.DB) (migratedb.Driver, error) {
	return migratesqlite.WithInstance(db, &migratesqlite.Config{})
}
