package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"taskboard/internal/errors"
)

// HandleDatabaseError converts database errors to structured app errors
func HandleDatabaseError(operation string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return errors.NewTimeoutError(operation, err)
	}
	return errors.NewDatabaseError(operation, err)
}

// HandleNoRowsError handles sql.ErrNoRows errors consistently
func HandleNoRowsError(err error, entityType string, id string) error {
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFoundError(entityType, id)
	}
	return err
}

// IsUniqueViolation reports whether err is a unique constraint failure from either driver
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ValidateRowsAffected checks if a database operation affected the expected number of rows
func ValidateRowsAffected(result sql.Result, entityType string, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return HandleDatabaseError("get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError(entityType, id)
	}
	return nil
}

// ExecuteReturningID executes an INSERT ... RETURNING id and returns the new row's id.
// Both modernc sqlite and postgres support RETURNING, so no LastInsertId fallback is needed.
func ExecuteReturningID(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) (int64, error) {
	var id int64
	if err := db.QueryRowxContext(ctx, db.Rebind(query), args...).Scan(&id); err != nil {
		return 0, HandleDatabaseError("execute insert", err)
	}
	return id, nil
}

// ExecuteWithRowsAffected executes a query and validates that rows were affected
func ExecuteWithRowsAffected(ctx context.Context, db *sqlx.DB, query string, entityType string, id string, args ...interface{}) error {
	result, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return HandleDatabaseError("execute query", err)
	}

	return ValidateRowsAffected(result, entityType, id)
}

// QuerySingle executes a query that returns a single row and scans it into T by db tags
func QuerySingle[T any](ctx context.Context, db *sqlx.DB, query string, entityType string, id string, args ...interface{}) (*T, error) {
	var result T
	if err := db.GetContext(ctx, &result, db.Rebind(query), args...); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, HandleNoRowsError(err, entityType, id)
		}
		return nil, HandleDatabaseError("scan "+entityType, err)
	}
	return &result, nil
}

// QueryRecords executes a query and returns every row as a raw Record
func QueryRecords(ctx context.Context, db *sqlx.DB, query string, entityType string, args ...interface{}) ([]Record, error) {
	rows, err := db.QueryxContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return nil, HandleDatabaseError("query "+entityType, err)
	}
	defer rows.Close()

	records, err := ScanRecords(rows)
	if err != nil {
		return nil, HandleDatabaseError("scan "+entityType, err)
	}

	return records, nil
}
