package migrations

import (
	"context"
	"database/sql"

	"taskboard/internal/logging"
)

func init() {
	RegisterGoMigration(4, "backfill_task_status", Up_000004_backfill_task_status, Down_000004_backfill_task_status)
}

// Up_000004_backfill_task_status marks legacy completed rows as done. Adding the status column
// gives every existing row the 'todo' default, which would otherwise override the completed flag.
func Up_000004_backfill_task_status(ctx context.Context, tx *sql.Tx, dialect string) error {
	columns, err := TableColumns(ctx, tx, dialect, "tasks")
	if err != nil {
		return err
	}
	if !columns["status"] || !columns["completed"] {
		return nil
	}

	truthy := "CAST(completed AS INTEGER) <> 0"
	if dialect == "postgres" {
		truthy = "LOWER(completed::text) IN ('1', 't', 'true')"
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE tasks
		SET status = 'done'
		WHERE `+truthy+` AND (status IS NULL OR LOWER(TRIM(status)) = 'todo')`)
	if err != nil {
		return err
	}

	if n, err := result.RowsAffected(); err == nil && n > 0 {
		logging.New("migrations").Info("backfilled status from completed flag", "rows", n)
	}
	return nil
}

// Down_000004_backfill_task_status leaves data untouched; the completed column still holds the
// original flag.
func Down_000004_backfill_task_status(ctx context.Context, tx *sql.Tx, dialect string) error {
	return nil
}
