package sqlstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"taskboard/internal/errors"
	"taskboard/internal/logging"
	"taskboard/internal/repository/sqlstore/migrations"
)

// Repository defines the storage operations the board depends on. Reads hand back raw records;
// every mutation is scoped to the owning user.
type Repository interface {
	// Task reads
	FetchTasksForUser(ctx context.Context, userID int64) ([]Record, error)
	CountTasks(ctx context.Context) (int64, error)

	// Task mutations
	CreateTask(ctx context.Context, userID int64, in TaskInput, createdAt time.Time) (int64, error)
	UpdateTask(ctx context.Context, userID, taskID int64, in TaskInput) error
	ToggleTask(ctx context.Context, userID, taskID int64) error
	MoveTask(ctx context.Context, userID, taskID int64, status string) error
	DeleteTask(ctx context.Context, userID, taskID int64) error

	// Users
	CreateUser(ctx context.Context, username, email, passwordHash string, createdAt time.Time) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUsername(ctx context.Context, id int64, username string) error
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error

	// Utility
	Ping(ctx context.Context) error
	Dialect() Dialect
	Close() error
}

// Options configures Open
type Options struct {
	Dialect      Dialect
	DSN          string
	Migrate      bool
	QueryTimeout time.Duration
}

// Store implements Repository on top of sqlx for SQLite and PostgreSQL
type Store struct {
	db      *sqlx.DB
	dialect Dialect
	schema  Schema
	timeout time.Duration
}

var _ Repository = (*Store)(nil)

// New opens a migrated SQLite store, mainly for tests and the CLI
func New(dsn string) (*Store, error) {
	return Open(context.Background(), Options{
		Dialect:      DialectSQLite,
		DSN:          dsn,
		Migrate:      true,
		QueryTimeout: 10 * time.Second,
	})
}

// Open connects to the database, optionally runs migrations, and records the tasks table shape.
// With Migrate false an existing legacy table is served as-is.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Dialect == "" {
		opts.Dialect = DialectSQLite
	}

	db, err := connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	if opts.Migrate {
		if err := migrations.RunMigrations(ctx, db.DB, string(opts.Dialect)); err != nil {
			db.Close()
			return nil, errors.NewDatabaseError("run migrations", err)
		}
	}

	schema, err := loadSchema(ctx, db, opts.Dialect)
	if err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("inspect tasks table", err)
	}
	for _, required := range []string{"id", "title", "user_id"} {
		if !schema.Has(required) {
			db.Close()
			return nil, errors.NewDatabaseError("inspect tasks table",
				fmt.Errorf("tasks table is missing or has no %s column", required))
		}
	}

	logging.New("store").Debug("opened store",
		"dialect", opts.Dialect, "shape", schema.Shape(), "migrated", opts.Migrate)

	return &Store{db: db, dialect: opts.Dialect, schema: schema, timeout: opts.QueryTimeout}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Dialect returns the backend in use
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Schema returns the tasks table shape captured at Open
func (s *Store) Schema() Schema {
	return s.schema
}

// Ping checks the connection, used by the health endpoint
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return HandleDatabaseError("ping database", err)
	}
	return nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// FetchTasksForUser returns every task row owned by the user, newest first. The query selects
// all columns so the caller sees exactly the shape the table has.
func (s *Store) FetchTasksForUser(ctx context.Context, userID int64) ([]Record, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := "SELECT " + s.schema.selectList(s.dialect) + " FROM tasks WHERE user_id = ?" + s.schema.orderClause(s.dialect)
	return QueryRecords(ctx, s.db, query, "tasks", userID)
}

// CountTasks counts the tasks of all users
func (s *Store) CountTasks(ctx context.Context) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var n int64
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM tasks"); err != nil {
		return 0, HandleDatabaseError("count tasks", err)
	}
	return n, nil
}

// CreateTask inserts a task and returns its id
func (s *Store) CreateTask(ctx context.Context, userID int64, in TaskInput, createdAt time.Time) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cols := []string{"title", "user_id"}
	args := []interface{}{in.Title, userID}
	add := func(col string, v interface{}) {
		if s.schema.Has(col) {
			cols = append(cols, col)
			args = append(args, v)
		}
	}
	add("description", in.Description)
	add("priority", in.Priority)
	add("category", in.Category)
	add("due_date", s.dialect.TimePtrValue(in.DueDate))
	add("created_at", s.dialect.TimeValue(createdAt))
	add("status", in.Status)
	add("completed", s.dialect.CompletedArg(in.Status))

	query := fmt.Sprintf("INSERT INTO tasks (%s) VALUES (%s) RETURNING id",
		strings.Join(cols, ", "), placeholders(len(cols)))
	return ExecuteReturningID(ctx, s.db, query, args...)
}

// UpdateTask rewrites the editable fields of a task
func (s *Store) UpdateTask(ctx context.Context, userID, taskID int64, in TaskInput) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sets := []string{"title = ?"}
	args := []interface{}{in.Title}
	set := func(col string, v interface{}) {
		if s.schema.Has(col) {
			sets = append(sets, col+" = ?")
			args = append(args, v)
		}
	}
	set("description", in.Description)
	set("priority", in.Priority)
	set("category", in.Category)
	set("due_date", s.dialect.TimePtrValue(in.DueDate))
	set("status", in.Status)
	set("completed", s.dialect.CompletedArg(in.Status))

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
	args = append(args, taskID, userID)
	return ExecuteWithRowsAffected(ctx, s.db, query, "task", formatID(taskID), args...)
}

// ToggleTask flips a task between done and todo, updating whichever completion columns exist.
func (s *Store) ToggleTask(ctx context.Context, userID, taskID int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	isDone, err := s.doneExpression()
	if err != nil {
		return err
	}

	var sets []string
	if s.schema.HasStatus() {
		sets = append(sets, "status = CASE WHEN "+isDone+" THEN 'todo' ELSE 'done' END")
	}
	if s.schema.HasCompleted() {
		sets = append(sets, "completed = CASE WHEN "+isDone+" THEN "+s.dialect.completedLiteral(false)+
			" ELSE "+s.dialect.completedLiteral(true)+" END")
	}

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
	return ExecuteWithRowsAffected(ctx, s.db, query, "task", formatID(taskID), taskID, userID)
}

// MoveTask sets the status of a task. On legacy tables only the completed flag can be stored.
func (s *Store) MoveTask(ctx context.Context, userID, taskID int64, status string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var sets []string
	var args []interface{}
	if s.schema.HasStatus() {
		sets = append(sets, "status = ?")
		args = append(args, status)
	}
	if s.schema.HasCompleted() {
		sets = append(sets, "completed = ?")
		args = append(args, s.dialect.CompletedArg(status))
	}
	if len(sets) == 0 {
		return errors.NewDatabaseError("move task", fmt.Errorf("tasks table has neither status nor completed column"))
	}

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
	args = append(args, taskID, userID)
	return ExecuteWithRowsAffected(ctx, s.db, query, "task", formatID(taskID), args...)
}

// DeleteTask deletes a task owned by the user
func (s *Store) DeleteTask(ctx context.Context, userID, taskID int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := "DELETE FROM tasks WHERE id = ? AND user_id = ?"
	return ExecuteWithRowsAffected(ctx, s.db, query, "task", formatID(taskID), taskID, userID)
}

// doneExpression is a SQL predicate that matches how a row reads back: a non-NULL status wins,
// otherwise the completed flag decides.
func (s *Store) doneExpression() (string, error) {
	const statusDone = "LOWER(TRIM(status)) = 'done'"
	completedSet := s.dialect.completedSet()

	switch {
	case s.schema.HasStatus() && s.schema.HasCompleted():
		return "(CASE WHEN status IS NOT NULL THEN " + statusDone + " ELSE " + completedSet + " END)", nil
	case s.schema.HasStatus():
		return "COALESCE(" + statusDone + ", FALSE)", nil
	case s.schema.HasCompleted():
		return completedSet, nil
	default:
		return "", errors.NewDatabaseError("toggle task", fmt.Errorf("tasks table has neither status nor completed column"))
	}
}

const userColumns = "id, username, email, password_hash"

// CreateUser inserts an account. A taken username or email yields a conflict error.
func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string, createdAt time.Time) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := "INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?) RETURNING id"
	var id int64
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(query), username, email, passwordHash, s.dialect.TimeValue(createdAt)).Scan(&id)
	if err != nil {
		if IsUniqueViolation(err) {
			return 0, errors.NewConflictError("user", "username or email", username)
		}
		return 0, HandleDatabaseError("create user", err)
	}
	return id, nil
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return QuerySingle[User](ctx, s.db, "SELECT "+userColumns+" FROM users WHERE id = ?", "user", formatID(id), id)
}

// GetUserByUsername retrieves a user by exact username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return QuerySingle[User](ctx, s.db, "SELECT "+userColumns+" FROM users WHERE username = ?", "user", username, username)
}

// GetUserByEmail retrieves a user by exact email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return QuerySingle[User](ctx, s.db, "SELECT "+userColumns+" FROM users WHERE email = ?", "user", email, email)
}

// UpdateUsername renames a user
func (s *Store) UpdateUsername(ctx context.Context, id int64, username string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE users SET username = ? WHERE id = ?"), username, id)
	if err != nil {
		if IsUniqueViolation(err) {
			return errors.NewConflictError("user", "username", username)
		}
		return HandleDatabaseError("update username", err)
	}
	return ValidateRowsAffected(result, "user", formatID(id))
}

// UpdatePasswordHash stores a new password hash
func (s *Store) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := "UPDATE users SET password_hash = ? WHERE id = ?"
	return ExecuteWithRowsAffected(ctx, s.db, query, "user", formatID(id), passwordHash, id)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
