package database

import (
	"database/sql"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"

	"github.com/math-practice/backend/internal/config"
)

type MySQLDialect struct{}

func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) Name() string       { return "mysql" }
func (d *MySQLDialect) DriverName() string { return "mysql" }

// DSN accepts a driver-format DATABASE_URL or builds one from the discrete
// fields. parseTime is forced so DATETIME columns scan into time.Time, and
// multiStatements so migration files can hold several statements.
func (d *MySQLDialect) DSN(cfg config.Database) (string, error) {
	var mc *mysql.Config
	if cfg.URL != "" {
		parsed, err := mysql.ParseDSN(cfg.URL)
		if err != nil {
			return "", err
		}
		mc = parsed
	} else {
		mc = mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		port := cfg.Port
		if port == "" {
			port = "3306"
		}
		mc.Addr = net.JoinHostPort(cfg.Host, port)
		mc.DBName = cfg.Name
	}
	mc.ParseTime = true
	mc.MultiStatements = true
	return mc.FormatDSN(), nil
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	return query
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
	return nil
}

func (d *MySQLDialect) MigrationDriver(db *sql.DB) (migratedb.Driver, error) {
	return migratemysql.WithInstance(db, &migratemysql.Config{})
}
