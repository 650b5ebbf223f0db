package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"taskboard/internal/logging"
)

func init() {
	RegisterGoMigration(3, "ensure_task_columns", Up_000003_ensure_task_columns, Down_000003_ensure_task_columns)
}

type columnDef struct {
	name     string
	sqlite   string
	postgres string
}

// Optional task columns that tables created by older releases may lack.
var taskColumns = []columnDef{
	{"description", "TEXT", "TEXT"},
	{"due_date", "DATETIME", "TIMESTAMPTZ NULL"},
	{"priority", "VARCHAR(10) NOT NULL DEFAULT 'Medium'", "VARCHAR(10) NOT NULL DEFAULT 'Medium'"},
	{"category", "VARCHAR(100) DEFAULT 'General'", "VARCHAR(100) DEFAULT 'General'"},
	{"status", "VARCHAR(20) DEFAULT 'todo'", "VARCHAR(20) DEFAULT 'todo'"},
	{"created_at", "TIMESTAMP", "TIMESTAMPTZ"},
}

// Up_000003_ensure_task_columns adds every optional task column the existing table is missing.
// Tables created by 000002 already carry all of them, so this only changes legacy tables.
func Up_000003_ensure_task_columns(ctx context.Context, tx *sql.Tx, dialect string) error {
	existing, err := TableColumns(ctx, tx, dialect, "tasks")
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return fmt.Errorf("tasks table does not exist")
	}

	for _, col := range taskColumns {
		if existing[col.name] {
			continue
		}
		def := col.sqlite
		if dialect == "postgres" {
			def = col.postgres
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE tasks ADD COLUMN %s %s", col.name, def)); err != nil {
			return fmt.Errorf("failed to add column %s: %w", col.name, err)
		}
		logging.New("migrations").Info("added missing task column", "column", col.name, "dialect", dialect)
	}

	return nil
}

// Down_000003_ensure_task_columns is a no-op: the added columns may hold user data by the time
// anyone rolls back.
func Down_000003_ensure_task_columns(ctx context.Context, tx *sql.Tx, dialect string) error {
	return nil
}
