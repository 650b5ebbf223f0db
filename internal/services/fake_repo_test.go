package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"taskboard/internal/errors"
	"taskboard/internal/repository/sqlstore"
)

// fakeRepo keeps raw records in memory so tests can plant any stored shape
type fakeRepo struct {
	mu      sync.Mutex
	records map[int64][]sqlstore.Record
	users   []sqlstore.User
	nextID  int64
	err     error
}

var _ sqlstore.Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[int64][]sqlstore.Record)}
}

func (f *fakeRepo) seed(userID int64, records ...sqlstore.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[userID] = append(f.records[userID], records...)
}

func (f *fakeRepo) find(userID, taskID int64) (sqlstore.Record, bool) {
	for _, r := range f.records[userID] {
		if id, ok := r["id"].(int64); ok && id == taskID {
			return r, true
		}
	}
	return nil, false
}

func (f *fakeRepo) FetchTasksForUser(ctx context.Context, userID int64) ([]sqlstore.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]sqlstore.Record, 0, len(f.records[userID]))
	out = append(out, f.records[userID]...)
	return out, nil
}

func (f *fakeRepo) CountTasks(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, rs := range f.records {
		n += int64(len(rs))
	}
	return n, nil
}

func (f *fakeRepo) CreateTask(ctx context.Context, userID int64, in sqlstore.TaskInput, createdAt time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	record := sqlstore.Record{
		"id":          f.nextID,
		"title":       in.Title,
		"description": in.Description,
		"status":      in.Status,
		"priority":    in.Priority,
		"category":    in.Category,
		"created_at":  createdAt,
		"user_id":     userID,
	}
	if in.DueDate != nil {
		record["due_date"] = *in.DueDate
	}
	f.records[userID] = append(f.records[userID], record)
	return f.nextID, nil
}

func (f *fakeRepo) UpdateTask(ctx context.Context, userID, taskID int64, in sqlstore.TaskInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.find(userID, taskID)
	if !ok {
		return errors.NewNotFoundError("task", strconv.FormatInt(taskID, 10))
	}
	r["title"], r["description"], r["status"] = in.Title, in.Description, in.Status
	r["priority"], r["category"] = in.Priority, in.Category
	r["due_date"] = nil
	if in.DueDate != nil {
		r["due_date"] = *in.DueDate
	}
	return nil
}

func (f *fakeRepo) ToggleTask(ctx context.Context, userID, taskID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.find(userID, taskID)
	if !ok {
		return errors.NewNotFoundError("task", strconv.FormatInt(taskID, 10))
	}
	if r["status"] == "done" {
		r["status"] = "todo"
	} else {
		r["status"] = "done"
	}
	return nil
}

func (f *fakeRepo) MoveTask(ctx context.Context, userID, taskID int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.find(userID, taskID)
	if !ok {
		return errors.NewNotFoundError("task", strconv.FormatInt(taskID, 10))
	}
	r["status"] = status
	return nil
}

func (f *fakeRepo) DeleteTask(ctx context.Context, userID, taskID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records[userID] {
		if id, ok := r["id"].(int64); ok && id == taskID {
			f.records[userID] = append(f.records[userID][:i], f.records[userID][i+1:]...)
			return nil
		}
	}
	return errors.NewNotFoundError("task", strconv.FormatInt(taskID, 10))
}

func (f *fakeRepo) CreateUser(ctx context.Context, username, email, passwordHash string, createdAt time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return 0, errors.NewConflictError("user", "username or email", username)
		}
	}
	id := int64(len(f.users) + 1)
	f.users = append(f.users, sqlstore.User{ID: id, Username: username, Email: email, PasswordHash: passwordHash})
	return id, nil
}

func (f *fakeRepo) findUser(match func(sqlstore.User) bool, key string) (*sqlstore.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, errors.NewNotFoundError("user", key)
}

func (f *fakeRepo) GetUserByID(ctx context.Context, id int64) (*sqlstore.User, error) {
	return f.findUser(func(u sqlstore.User) bool { return u.ID == id }, strconv.FormatInt(id, 10))
}

func (f *fakeRepo) GetUserByUsername(ctx context.Context, username string) (*sqlstore.User, error) {
	return f.findUser(func(u sqlstore.User) bool { return u.Username == username }, username)
}

func (f *fakeRepo) GetUserByEmail(ctx context.Context, email string) (*sqlstore.User, error) {
	return f.findUser(func(u sqlstore.User) bool { return u.Email == email }, email)
}

func (f *fakeRepo) UpdateUsername(ctx context.Context, id int64, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].Username = username
			return nil
		}
	}
	return errors.NewNotFoundError("user", strconv.FormatInt(id, 10))
}

func (f *fakeRepo) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].PasswordHash = passwordHash
			return nil
		}
	}
	return errors.NewNotFoundError("user", strconv.FormatInt(id, 10))
}

func (f *fakeRepo) Ping(ctx context.Context) error { return nil }

func (f *fakeRepo) Dialect() sqlstore.Dialect { return sqlstore.DialectSQLite }

func (f *fakeRepo) Close() error { return nil }

// fixedClock always reports the same instant
func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
