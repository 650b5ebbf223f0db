package sqlstore

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names a supported SQL backend. The value doubles as the database/sql driver name.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know by default
	sqlx.BindDriver(string(DialectSQLite), sqlx.QUESTION)
}

// ParseDialect maps a configured database type onto a Dialect
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database type %q", s)
	}
}

// DriverName returns the database/sql driver registered for the dialect
func (d Dialect) DriverName() string {
	return string(d)
}

func (d Dialect) String() string {
	return string(d)
}

// TimeValue converts an instant into the argument the driver stores best. SQLite keeps TEXT,
// so instants are written as RFC3339; postgres takes time.Time natively.
func (d Dialect) TimeValue(t time.Time) interface{} {
	if d == DialectPostgres {
		return t
	}
	return FormatTimeForDB(t)
}

// TimePtrValue is TimeValue for optional instants
func (d Dialect) TimePtrValue(t *time.Time) interface{} {
	if d != DialectPostgres {
		return FormatTimePtrForDB(t)
	}
	if t == nil {
		return nil
	}
	return *t
}

// CompletedArg converts a status into the legacy completed argument. Postgres legacy tables
// declare completed as BOOLEAN; SQLite stores 0 or 1.
func (d Dialect) CompletedArg(status string) interface{} {
	if d == DialectPostgres {
		return CompletedBool(status)
	}
	return CompletedValue(status)
}

// completedSet is a predicate matching rows whose legacy completed flag is set
func (d Dialect) completedSet() string {
	if d == DialectPostgres {
		return "COALESCE(completed, FALSE)"
	}
	return "COALESCE(completed, 0) <> 0"
}

// completedLiteral is the SQL literal stored for a set or cleared completed flag
func (d Dialect) completedLiteral(done bool) string {
	switch {
	case d == DialectPostgres && done:
		return "TRUE"
	case d == DialectPostgres:
		return "FALSE"
	case done:
		return "1"
	default:
		return "0"
	}
}
