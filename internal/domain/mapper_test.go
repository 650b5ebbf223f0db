package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/errors"
	"taskboard/internal/repository/sqlstore"
)

func TestRecordMapper_FromRecord_Completion(t *testing.T) {
	tests := []struct {
		name      string
		record    sqlstore.Record
		status    Status
		completed bool
	}{
		{"status done", sqlstore.Record{"status": "done"}, StatusDone, true},
		{"status todo", sqlstore.Record{"status": "todo"}, StatusTodo, false},
		{"status in_review", sqlstore.Record{"status": "in_review"}, StatusInReview, false},
		{"status is case-folded", sqlstore.Record{"status": " Done "}, StatusDone, true},
		{"unknown status is todo", sqlstore.Record{"status": "archived"}, StatusTodo, false},
		{"blank status is todo", sqlstore.Record{"status": ""}, StatusTodo, false},
		{"status wins over completed", sqlstore.Record{"status": "todo", "completed": int64(1)}, StatusTodo, false},
		{"status done wins over completed 0", sqlstore.Record{"status": "done", "completed": int64(0)}, StatusDone, true},
		{"NULL status falls back to completed", sqlstore.Record{"status": nil, "completed": int64(1)}, StatusDone, true},
		{"completed 1", sqlstore.Record{"completed": int64(1)}, StatusDone, true},
		{"completed 0", sqlstore.Record{"completed": int64(0)}, StatusTodo, false},
		{"completed true", sqlstore.Record{"completed": true}, StatusDone, true},
		{"completed false", sqlstore.Record{"completed": false}, StatusTodo, false},
		{"completed string", sqlstore.Record{"completed": "1"}, StatusDone, true},
		{"completed string true", sqlstore.Record{"completed": "True"}, StatusDone, true},
		{"completed string 0", sqlstore.Record{"completed": "0"}, StatusTodo, false},
		{"completed bytes", sqlstore.Record{"completed": []byte("t")}, StatusDone, true},
		{"completed float", sqlstore.Record{"completed": 1.0}, StatusDone, true},
		{"completed NULL", sqlstore.Record{"completed": nil}, StatusTodo, false},
		{"neither column", sqlstore.Record{}, StatusTodo, false},
	}

	mapper := NewRecordMapper(time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := sqlstore.Record{"id": int64(1), "title": "A"}
			for k, v := range tt.record {
				record[k] = v
			}

			task, err := mapper.FromRecord(record)
			require.NoError(t, err)
			assert.Equal(t, tt.status, task.Status)
			assert.Equal(t, tt.completed, task.Completed)
			assert.Equal(t, task.Status == StatusDone, task.Completed)
		})
	}
}

func TestRecordMapper_FromRecord_Defaults(t *testing.T) {
	mapper := NewRecordMapper(time.UTC)

	task, err := mapper.FromRecord(sqlstore.Record{"id": int64(7), "title": "Bare"})
	require.NoError(t, err)

	assert.Equal(t, Task{
		ID:       7,
		Title:    "Bare",
		Status:   StatusTodo,
		Priority: PriorityMedium,
		Category: DefaultCategory,
	}, task)
}

func TestRecordMapper_FromRecord_AllColumns(t *testing.T) {
	mapper := NewRecordMapper(time.UTC)

	task, err := mapper.FromRecord(sqlstore.Record{
		"id":          int64(3),
		"title":       "Buy groceries",
		"description": "milk, eggs",
		"status":      "in_progress",
		"priority":    "high",
		"category":    "  Home ",
		"created_at":  "2024-01-01 09:00:00",
		"due_date":    time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC),
		"user_id":     int64(1),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), task.ID)
	assert.Equal(t, "Buy groceries", task.Title)
	assert.Equal(t, "milk, eggs", task.Description)
	assert.Equal(t, StatusInProgress, task.Status)
	assert.False(t, task.Completed)
	assert.Equal(t, PriorityHigh, task.Priority)
	assert.Equal(t, "Home", task.Category)
	require.NotNil(t, task.CreatedAt)
	assert.True(t, task.CreatedAt.Equal(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)))
	require.NotNil(t, task.DueDate)
	assert.True(t, task.DueDate.Equal(time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC)))
	assert.Zero(t, task.PriorityRank, "derived fields are left to Derive")
}

func TestRecordMapper_FromRecord_TolerantFields(t *testing.T) {
	mapper := NewRecordMapper(time.UTC)

	task, err := mapper.FromRecord(sqlstore.Record{
		"id":          "12",
		"title":       []byte("bytes title"),
		"description": nil,
		"priority":    "Urgent",
		"category":    nil,
		"due_date":    "not a date",
		"created_at":  nil,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(12), task.ID)
	assert.Equal(t, "bytes title", task.Title)
	assert.Equal(t, "", task.Description)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Equal(t, DefaultCategory, task.Category)
	assert.Nil(t, task.DueDate)
	assert.Nil(t, task.CreatedAt)
}

func TestRecordMapper_FromRecord_StructuralErrors(t *testing.T) {
	tests := []struct {
		name   string
		record sqlstore.Record
		field  string
	}{
		{"missing id", sqlstore.Record{"title": "A"}, "id"},
		{"NULL id", sqlstore.Record{"id": nil, "title": "A"}, "id"},
		{"non-integer id", sqlstore.Record{"id": "abc", "title": "A"}, "id"},
		{"fractional id", sqlstore.Record{"id": 1.5, "title": "A"}, "id"},
		{"missing title", sqlstore.Record{"id": int64(1)}, "title"},
		{"NULL title", sqlstore.Record{"id": int64(1), "title": nil}, "title"},
	}

	mapper := NewRecordMapper(time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mapper.FromRecord(tt.record)
			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, errors.ErrorTypeReconcile))

			appErr, ok := errors.AsAppError(err)
			require.True(t, ok)
			field, _ := appErr.GetContext("field")
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestRecordMapper_FromRecords_SkipsBadRecords(t *testing.T) {
	mapper := NewRecordMapper(time.UTC)

	records := []sqlstore.Record{
		{"id": int64(1), "title": "first"},
		{"title": "no id"},
		{"id": int64(3), "title": "third"},
		{"id": int64(4)},
	}

	tasks, errs := mapper.FromRecords(records)
	require.Len(t, tasks, 2)
	assert.Equal(t, int64(1), tasks[0].ID)
	assert.Equal(t, int64(3), tasks[1].ID)
	assert.Len(t, errs, 2)

	tasks, errs = mapper.FromRecords(nil)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	assert.Empty(t, errs)
}

func TestRecordMapper_Scenarios(t *testing.T) {
	mapper := NewRecordMapper(time.UTC)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("done task with past due date is not overdue", func(t *testing.T) {
		task, err := mapper.FromRecord(sqlstore.Record{
			"id": int64(1), "title": "A", "status": "done", "due_date": "2020-01-01T00:00",
		})
		require.NoError(t, err)
		task = Derive(task, now)
		assert.True(t, task.Completed)
		assert.False(t, task.IsOverdue)
	})

	t.Run("legacy open task due yesterday is overdue", func(t *testing.T) {
		yesterday := now.AddDate(0, 0, -1).Format("2006-01-02 15:04:05")
		task, err := mapper.FromRecord(sqlstore.Record{
			"id": int64(2), "title": "B", "completed": int64(0), "due_date": yesterday,
		})
		require.NoError(t, err)
		task = Derive(task, now)
		assert.Equal(t, StatusTodo, task.Status)
		assert.True(t, task.IsOverdue)
	})
}

func TestRecordMapper_ToInput(t *testing.T) {
	due := time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC)
	input := NewMapper(time.UTC).Record.ToInput(Task{
		Title:       "A",
		Description: "d",
		Status:      StatusInReview,
		Priority:    PriorityLow,
		Category:    "Work",
		DueDate:     &due,
	})

	assert.Equal(t, sqlstore.TaskInput{
		Title:       "A",
		Description: "d",
		Status:      "in_review",
		Priority:    "Low",
		Category:    "Work",
		DueDate:     &due,
	}, input)
}
