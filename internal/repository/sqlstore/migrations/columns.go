package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Queryer is satisfied by *sql.DB, *sql.Tx and *sqlx.DB.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// TableColumns returns the lower-cased column names of table. A missing table yields an empty set.
func TableColumns(ctx context.Context, q Queryer, dialect, table string) (map[string]bool, error) {
	var query string
	switch dialect {
	case "sqlite":
		query = "SELECT name FROM pragma_table_info(?)"
	case "postgres":
		query = "SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1"
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	rows, err := q.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns[strings.ToLower(name)] = true
	}
	return columns, rows.Err()
}
