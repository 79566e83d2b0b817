// internal/store/dialect.go
//
// Database-dialect abstraction for the SQL store. Queries are written
// once with ? placeholders; each dialect rewrites them as needed and
// owns its connection settings and migrations subdirectory.

package store

import (
	"database/sql"
	"errors"
	"regexp"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Dialect captures the database-specific pieces of the SQL store.
type Dialect interface {
	// DriverName returns the driver name for sql.Open.
	DriverName() string

	// DSN returns the data source name for the connection.
	DSN(cfg DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed
	// (? to $1 for postgres).
	RewriteQuery(query string) string

	// ConfigureConnection applies database-specific connection settings.
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the per-dialect migrations directory.
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL creating the
	// migrations tracking table.
	CreateMigrationsTableQuery() string
}

// DialectConfig holds connection parameters.
type DialectConfig struct {
	// Path is the database file, for SQLite.
	Path string
	// URL is the connection string, for PostgreSQL/MySQL.
	URL string
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

// isUniqueViolation reports whether err is a unique-constraint failure
// for any supported driver. The SQL store leans on unique constraints
// as the last line of defense against concurrent writers.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		return pe.Code == "23505"
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}
