package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/math-practice/backend/internal/config"
)

//go:embed migrations
var migrationsFS embed.FS

// DB wraps the connection pool with the dialect used to reach it.
// Queries are written with ? placeholders and rewritten per dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

func Connect(cfg config.Database) (*DB, error) {
	dialect, err := DialectFor(cfg.Type)
	if err != nil {
		return nil, err
	}

	dsn, err := dialect.DSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("build %s dsn: %w", dialect.Name(), err)
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := dialect.ConfigureConnection(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure connection: %w", err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

// Migrate applies the embedded migrations for the connection's dialect.
// The migrate instance is not closed: its drivers would close the shared pool.
func Migrate(db *DB) error {
	src, err := iofs.New(migrationsFS, "migrations/"+db.Dialect.Name())
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	driver, err := db.Dialect.MigrationDriver(db.DB)
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, db.Dialect.Name(), driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err == nil {
		log.Printf("Database migrated (%s, version=%d, dirty=%v)", db.Dialect.Name(), version, dirty)
	}
	return nil
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.DB.ExecContext(ctx, db.Dialect.RewriteQuery(query), args...)
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.DB.QueryRowContext(ctx, db.Dialect.RewriteQuery(query), args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.DB.QueryContext(ctx, db.Dialect.RewriteQuery(query), args...)
}

// DialectFor resolves a configured database type to its dialect.
func DialectFor(dbType string) (Dialect, error) {
	switch strings.ToLower(dbType) {
	case "postgres", "postgresql", "":
		return NewPostgresDialect(), nil
	case "sqlite", "sqlite3":
		return NewSQLiteDialect(), nil
	case "mysql":
		return NewMySQLDialect(), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}
