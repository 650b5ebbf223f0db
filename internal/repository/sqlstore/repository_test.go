package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/errors"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *Store, username string) int64 {
	t.Helper()
	id, err := store.CreateUser(context.Background(), username, username+"@example.com", "hash", time.Now())
	require.NoError(t, err)
	return id
}

func titles(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i], _ = r["title"].(string)
	}
	return out
}

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestStore_FetchTasksForUser_Empty(t *testing.T) {
	store := setupTestStore(t)
	userID := createUser(t, store, "alice")

	records, err := store.FetchTasksForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestStore_FetchTasksForUser_OrderAndScope(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	_, err := store.CreateTask(ctx, alice, TaskInput{Title: "oldest", Status: "todo"}, base)
	require.NoError(t, err)
	_, err = store.CreateTask(ctx, alice, TaskInput{Title: "same-time-first", Status: "todo"}, base.Add(time.Hour))
	require.NoError(t, err)
	_, err = store.CreateTask(ctx, alice, TaskInput{Title: "same-time-second", Status: "todo"}, base.Add(time.Hour))
	require.NoError(t, err)
	_, err = store.CreateTask(ctx, bob, TaskInput{Title: "bob's", Status: "todo"}, base)
	require.NoError(t, err)

	records, err := store.FetchTasksForUser(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"same-time-second", "same-time-first", "oldest"}, titles(records))

	records, err = store.FetchTasksForUser(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob's"}, titles(records))
}

func TestStore_CreateTask_WritesAllColumns(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	userID := createUser(t, store, "alice")
	due := time.Date(2024, 3, 5, 17, 30, 0, 0, time.UTC)

	id, err := store.CreateTask(ctx, userID, TaskInput{
		Title:       "Buy groceries",
		Description: "milk",
		Status:      "in_progress",
		Priority:    "High",
		Category:    "Home",
		DueDate:     &due,
	}, base)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	records, err := store.FetchTasksForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, id, r["id"])
	assert.Equal(t, "Buy groceries", r["title"])
	assert.Equal(t, "milk", r["description"])
	assert.Equal(t, "in_progress", r["status"])
	assert.Equal(t, "High", r["priority"])
	assert.Equal(t, "Home", r["category"])
	assert.True(t, r.Has("due_date"))
	assert.True(t, r.Has("created_at"))
	_, hasCompleted := r["completed"]
	assert.False(t, hasCompleted)
}

func TestStore_UpdateTask(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	id, err := store.CreateTask(ctx, alice, TaskInput{Title: "draft", Status: "todo", Priority: "Low", Category: "General"}, base)
	require.NoError(t, err)

	err = store.UpdateTask(ctx, alice, id, TaskInput{Title: "final", Status: "in_review", Priority: "High", Category: "Work"})
	require.NoError(t, err)

	records, err := store.FetchTasksForUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "final", records[0]["title"])
	assert.Equal(t, "in_review", records[0]["status"])
	assert.Nil(t, records[0]["due_date"])

	err = store.UpdateTask(ctx, bob, id, TaskInput{Title: "hijack", Status: "todo"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestStore_ToggleMoveDelete(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	userID := createUser(t, store, "alice")

	id, err := store.CreateTask(ctx, userID, TaskInput{Title: "task", Status: "todo"}, base)
	require.NoError(t, err)

	status := func() interface{} {
		records, err := store.FetchTasksForUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		return records[0]["status"]
	}

	require.NoError(t, store.ToggleTask(ctx, userID, id))
	assert.Equal(t, "done", status())
	require.NoError(t, store.ToggleTask(ctx, userID, id))
	assert.Equal(t, "todo", status())

	require.NoError(t, store.MoveTask(ctx, userID, id, "in_review"))
	assert.Equal(t, "in_review", status())
	require.NoError(t, store.ToggleTask(ctx, userID, id))
	assert.Equal(t, "done", status())

	assert.True(t, errors.IsErrorType(store.ToggleTask(ctx, userID+1, id), errors.ErrorTypeNotFound))
	assert.True(t, errors.IsErrorType(store.MoveTask(ctx, userID, id+100, "done"), errors.ErrorTypeNotFound))

	count, err := store.CountTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, store.DeleteTask(ctx, userID, id))
	err = store.DeleteTask(ctx, userID, id)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	count, err = store.CountTasks(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	id, err := store.CreateUser(ctx, "alice", "alice@example.com", "hash-1", base)
	require.NoError(t, err)

	_, err = store.CreateUser(ctx, "alice", "other@example.com", "hash", base)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))
	_, err = store.CreateUser(ctx, "other", "alice@example.com", "hash", base)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))

	user, err := store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, &User{ID: id, Username: "alice", Email: "alice@example.com", PasswordHash: "hash-1"}, user)

	user, err = store.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	_, err = store.GetUserByUsername(ctx, "nobody")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	assert.EqualError(t, err, "user not found: nobody")

	_, err = store.CreateUser(ctx, "bob", "bob@example.com", "hash", base)
	require.NoError(t, err)
	err = store.UpdateUsername(ctx, id, "bob")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))

	require.NoError(t, store.UpdateUsername(ctx, id, "alicia"))
	require.NoError(t, store.UpdatePasswordHash(ctx, id, "hash-2"))

	user, err = store.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alicia", user.Username)
	assert.Equal(t, "hash-2", user.PasswordHash)

	err = store.UpdatePasswordHash(ctx, 9999, "x")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

// openLegacy builds a database by hand and opens it without migrations.
func openLegacy(t *testing.T, ddl string) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "legacy.db")

	raw, err := sqlx.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = raw.Exec(`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	require.NoError(t, err)
	_, err = raw.Exec(ddl)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	store, err := Open(context.Background(), Options{Dialect: DialectSQLite, DSN: dbPath, QueryTimeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_LegacyCompletedShape(t *testing.T) {
	ctx := context.Background()
	store := openLegacy(t, `CREATE TABLE tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT,
		completed INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		user_id INTEGER NOT NULL
	)`)
	assert.Equal(t, "completed", store.Schema().Shape())

	userID := createUser(t, store, "alice")
	id, err := store.CreateTask(ctx, userID, TaskInput{Title: "legacy", Status: "done", Priority: "High", Category: "Work"}, base)
	require.NoError(t, err)

	completed := func() interface{} {
		records, err := store.FetchTasksForUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		_, hasStatus := records[0]["status"]
		assert.False(t, hasStatus)
		_, hasPriority := records[0]["priority"]
		assert.False(t, hasPriority)
		return records[0]["completed"]
	}

	assert.Equal(t, int64(1), completed())
	require.NoError(t, store.ToggleTask(ctx, userID, id))
	assert.Equal(t, int64(0), completed())
	require.NoError(t, store.MoveTask(ctx, userID, id, "done"))
	assert.Equal(t, int64(1), completed())
	require.NoError(t, store.MoveTask(ctx, userID, id, "in_progress"))
	assert.Equal(t, int64(0), completed())
}

func TestStore_DualShapeToggleFollowsReadRule(t *testing.T) {
	ctx := context.Background()
	store := openLegacy(t, `CREATE TABLE tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		status VARCHAR(20),
		completed INTEGER DEFAULT 0,
		user_id INTEGER NOT NULL
	)`)
	assert.Equal(t, "status+completed", store.Schema().Shape())

	userID := createUser(t, store, "alice")
	_, err := store.db.Exec("INSERT INTO tasks (title, status, completed, user_id) VALUES ('no status', NULL, 1, ?)", userID)
	require.NoError(t, err)

	records, err := store.FetchTasksForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	id := records[0]["id"].(int64)

	// completed=1 with NULL status reads as done, so toggling reopens it
	require.NoError(t, store.ToggleTask(ctx, userID, id))

	records, err = store.FetchTasksForUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "todo", records[0]["status"])
	assert.Equal(t, int64(0), records[0]["completed"])
}

func TestStore_FetchTasksForUser_DatesReadAsStoredText(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	userID := createUser(t, store, "alice")

	plus2 := time.FixedZone("UTC+2", 2*60*60)
	due := time.Date(2024, 6, 1, 11, 0, 0, 0, plus2)
	id, err := store.CreateTask(ctx, userID, TaskInput{Title: "written", Status: "todo", DueDate: &due}, base)
	require.NoError(t, err)
	_, err = store.CreateTask(ctx, userID, TaskInput{Title: "naive", Status: "todo"}, base.Add(time.Hour))
	require.NoError(t, err)
	_, err = store.db.Exec("UPDATE tasks SET due_date = '2024-06-01T09:00', created_at = '2024-03-01 10:00:00' WHERE id <> ?", id)
	require.NoError(t, err)

	records, err := store.FetchTasksForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// naive text is handed back untouched so the reader can apply its zone
	assert.Equal(t, "naive", records[0]["title"])
	assert.Equal(t, "2024-06-01T09:00", records[0]["due_date"])
	assert.Equal(t, "2024-03-01 10:00:00", records[0]["created_at"])

	assert.Equal(t, "written", records[1]["title"])
	assert.Equal(t, "2024-06-01T09:00:00Z", records[1]["due_date"])
	assert.Equal(t, "2024-03-01T09:00:00Z", records[1]["created_at"])
}

func TestStore_FetchTasksForUser_MixedCreatedAtLayouts(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	userID := createUser(t, store, "alice")

	tests := []struct {
		title     string
		createdAt string
	}{
		{"legacy noon", "2024-03-01 12:00:00"},
		{"rfc3339 morning", "2024-03-01T09:30:00Z"},
		{"offset evening", "2024-03-01T20:00:00+02:00"},
		{"legacy next day", "2024-03-02 08:00:00"},
	}
	for _, tt := range tests {
		_, err := store.db.Exec("INSERT INTO tasks (title, status, created_at, user_id) VALUES (?, 'todo', ?, ?)",
			tt.title, tt.createdAt, userID)
		require.NoError(t, err)
	}
	_, err := store.CreateTask(ctx, userID, TaskInput{Title: "written", Status: "todo"},
		time.Date(2024, 3, 1, 15, 0, 0, 0, time.FixedZone("EST", -5*60*60)))
	require.NoError(t, err)

	records, err := store.FetchTasksForUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"legacy next day", "written", "offset evening", "legacy noon", "rfc3339 morning"}, titles(records))
}

func TestOpen_RequiresTasksTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	_, err := Open(context.Background(), Options{Dialect: DialectSQLite, DSN: dbPath})
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeDatabase))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}
