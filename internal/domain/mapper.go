package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"taskboard/internal/errors"
	"taskboard/internal/repository/sqlstore"
)

// RecordMapper reconciles raw task records of any stored shape into canonical Tasks.
type RecordMapper struct {
	loc *time.Location
}

// NewRecordMapper creates a RecordMapper that reads offset-less timestamps in loc.
func NewRecordMapper(loc *time.Location) *RecordMapper {
	if loc == nil {
		loc = time.Local
	}
	return &RecordMapper{loc: loc}
}

// FromRecord converts a raw record into a Task with derived fields left zero.
// Only a missing or NULL id or title, or an id that is not an integer, is an error.
func (m *RecordMapper) FromRecord(record sqlstore.Record) (Task, error) {
	if !record.Has("id") {
		return Task{}, errors.NewReconcileError("id", record)
	}
	id, ok := toInt64(record["id"])
	if !ok {
		return Task{}, errors.NewReconcileError("id", record).
			WithContext("reason", fmt.Sprintf("id %v is not an integer", record["id"]))
	}
	if !record.Has("title") {
		return Task{}, errors.NewReconcileError("title", record).WithContext("id", id)
	}

	status, completed := reconcileCompletion(record)

	return Task{
		ID:          id,
		Title:       toString(record["title"]),
		Description: toString(record["description"]),
		Status:      status,
		Completed:   completed,
		Priority:    NormalizePriority(toString(record["priority"])),
		Category:    NormalizeCategory(toString(record["category"])),
		CreatedAt:   ParseInstant(record["created_at"], m.loc),
		DueDate:     ParseInstant(record["due_date"], m.loc),
	}, nil
}

// FromRecords converts every record it can. Records that fail are skipped and their errors
// returned alongside, in input order.
func (m *RecordMapper) FromRecords(records []sqlstore.Record) ([]Task, []error) {
	tasks := make([]Task, 0, len(records))
	var errs []error
	for _, r := range records {
		task, err := m.FromRecord(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, errs
}

// ToInput converts a Task into the fields the store writes.
func (m *RecordMapper) ToInput(task Task) sqlstore.TaskInput {
	return sqlstore.TaskInput{
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		Category:    task.Category,
		DueDate:     task.DueDate,
	}
}

// reconcileCompletion applies the completion rule: a non-NULL status wins and completed
// follows it; otherwise the legacy completed flag decides; otherwise the task is todo.
func reconcileCompletion(record sqlstore.Record) (Status, bool) {
	if record.Has("status") {
		status, _ := ParseStatus(toString(record["status"]))
		return status, status == StatusDone
	}
	if record.Has("completed") && isTruthy(record["completed"]) {
		return StatusDone, true
	}
	return StatusTodo, false
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	case []byte:
		i, err := strconv.ParseInt(strings.TrimSpace(string(n)), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}

func isTruthy(v interface{}) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case int64:
		return b != 0
	case int:
		return b != 0
	case int32:
		return b != 0
	case float64:
		return b != 0
	case string:
		return truthyString(b)
	case []byte:
		return truthyString(string(b))
	default:
		return false
	}
}

func truthyString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y":
		return true
	default:
		return false
	}
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Record *RecordMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper(loc *time.Location) *Mapper {
	return &Mapper{
		Record: NewRecordMapper(loc),
	}
}
