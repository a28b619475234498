package database

import (
	"database/sql"
	"regexp"
	"strconv"

	migratedb "github.com/golang-migrate/migrate/v4/database"

	"github.com/math-practice/backend/internal/config"
)

// Dialect captures what differs between the supported SQL backends.
type Dialect interface {
	// Name is also the migrations subdirectory.
	Name() string

	// DriverName returns the driver name for sql.Open
	DriverName() string

	DSN(cfg config.Database) (string, error)

	// RewriteQuery converts placeholder syntax if needed (e.g., ? to $1 for postgres)
	RewriteQuery(query string) string

	ConfigureConnection(db *sql.DB) error

	// MigrationDriver wraps the pool for golang-migrate.
	MigrationDriver(db *sql.DB) (migratedb.Driver, error)
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}
