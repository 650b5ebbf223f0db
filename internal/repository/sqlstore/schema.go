package sqlstore

import (
	"context"
	"sort"
	"strings"

	"taskboard/internal/repository/sqlstore/migrations"
)

// Schema records which columns the tasks table carries. Writes consult it so that both the
// status-column shape and the legacy completed-column shape are kept consistent.
type Schema struct {
	columns map[string]bool
}

// NewSchema builds a Schema from a list of column names
func NewSchema(columns ...string) Schema {
	s := Schema{columns: make(map[string]bool, len(columns))}
	for _, c := range columns {
		s.columns[c] = true
	}
	return s
}

func loadSchema(ctx context.Context, q migrations.Queryer, d Dialect) (Schema, error) {
	columns, err := migrations.TableColumns(ctx, q, string(d), "tasks")
	if err != nil {
		return Schema{}, err
	}
	return Schema{columns: columns}, nil
}

// Has reports whether the tasks table has the column
func (s Schema) Has(column string) bool {
	return s.columns[column]
}

// HasStatus reports whether the enumerated status column exists
func (s Schema) HasStatus() bool { return s.Has("status") }

// HasCompleted reports whether the legacy boolean completed column exists
func (s Schema) HasCompleted() bool { return s.Has("completed") }

// Columns returns the column names in sorted order
func (s Schema) Columns() []string {
	names := make([]string, 0, len(s.columns))
	for c := range s.columns {
		names = append(names, c)
	}
	sort.Strings(names)
	return names
}

// Shape names the completion representation in use: "status", "completed" or "status+completed".
func (s Schema) Shape() string {
	switch {
	case s.HasStatus() && s.HasCompleted():
		return "status+completed"
	case s.HasCompleted():
		return "completed"
	case s.HasStatus():
		return "status"
	default:
		return "none"
	}
}

// orderClause sorts newest first, falling back to id when the table has no created_at.
// SQLite stores created_at as text in more than one layout, so it is normalized with datetime().
func (s Schema) orderClause(d Dialect) string {
	if !s.Has("created_at") {
		return " ORDER BY id DESC"
	}
	if d == DialectSQLite {
		return " ORDER BY datetime(created_at) DESC, id DESC"
	}
	return " ORDER BY created_at DESC, id DESC"
}

// dateColumns are read back as text on SQLite so naive values keep their wall clock
var dateColumns = map[string]bool{"due_date": true, "created_at": true}

// selectList names the tasks columns to read. On SQLite the date columns are cast to TEXT,
// otherwise the driver parses naive DATETIME text as UTC before the configured zone can apply.
func (s Schema) selectList(d Dialect) string {
	columns := s.Columns()
	if d != DialectSQLite || len(columns) == 0 {
		return "*"
	}
	list := make([]string, len(columns))
	for i, c := range columns {
		quoted := `"` + c + `"`
		if dateColumns[c] {
			list[i] = "CAST(" + quoted + " AS TEXT) AS " + quoted
		} else {
			list[i] = quoted
		}
	}
	return strings.Join(list, ", ")
}
