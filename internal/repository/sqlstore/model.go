package sqlstore

import "time"

// Record is one stored task row keyed by lower-cased column name. The column set is whatever
// the table carries, so callers must not assume any key beyond id and title.
type Record map[string]interface{}

// Has reports whether the column is present with a non-NULL value.
func (r Record) Has(column string) bool {
	v, ok := r[column]
	return ok && v != nil
}

// TaskInput holds the user-editable fields written by create and edit.
// Fields whose column does not exist are skipped.
type TaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	Category    string
	DueDate     *time.Time
}

// User represents an account row
type User struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
}
