package database

import (
	"database/sql"
	"fmt"
	"time"

	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/lib/pq"

	"github.com/math-practice/backend/internal/config"
)

type PostgresDialect struct{}

func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) Name() string       { return "postgres" }
func (d *PostgresDialect) DriverName() string { return "postgres" }

func (d *PostgresDialect) DSN(cfg config.Database) (string, error) {
	if cfg.URL != "" {
		return cfg.URL, nil
	}
	port := cfg.Port
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	), nil
}

func (d *PostgresDialect) RewriteQuery(query string) string {
	return rewritePlaceholdersToNumbered(query)
}

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return nil
}

func (d *PostgresDialect) MigrationDriver(db *sql.DB) (migratedb.Driver, error) {
	return migratepg.WithInstance(db, &migratepg.Config{})
}
