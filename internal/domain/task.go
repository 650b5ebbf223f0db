package domain

import (
	"strings"
	"time"
)

// Status is the kanban column of a task and the source of truth for completion.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusInReview   Status = "in_review"
	StatusDone       Status = "done"
)

// Statuses lists the columns in board order
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusInReview, StatusDone}
}

// ParseStatus trims and lower-cases raw and reports whether it names a known status.
// Unknown values come back as StatusTodo with ok false.
func ParseStatus(raw string) (status Status, ok bool) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusTodo:
		return StatusTodo, true
	case StatusInProgress:
		return StatusInProgress, true
	case StatusInReview:
		return StatusInReview, true
	case StatusDone:
		return StatusDone, true
	default:
		return StatusTodo, false
	}
}

// Priority of a task
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// NormalizePriority matches raw case-insensitively; anything else is Medium.
func NormalizePriority(raw string) Priority {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return PriorityLow
	case "high":
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// PriorityRank is the sort weight of a priority: High 3, Medium 2, Low 1, anything else 2.
func PriorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

// DefaultCategory is used for tasks stored without a category
const DefaultCategory = "General"

// NormalizeCategory trims raw and substitutes DefaultCategory for blanks.
func NormalizeCategory(raw string) string {
	if c := strings.TrimSpace(raw); c != "" {
		return c
	}
	return DefaultCategory
}

// Task represents a task in the domain model.
// It is rebuilt from storage on every read and never mutated in place.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
	CreatedAt   *time.Time `json:"created_at"`
	DueDate     *time.Time `json:"due_date"`

	// Derived at read time, never persisted
	PriorityRank int  `json:"priority_rank"`
	IsOverdue    bool `json:"is_overdue"`
	IsDueToday   bool `json:"is_due_today"`
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}

// DueOn reports whether the task has a due date on the same calendar day as now,
// ignoring completion and overdue state.
func (t Task) DueOn(now time.Time) bool {
	return t.DueDate != nil && SameDate(*t.DueDate, now)
}

// Derive returns a copy of task with the derived fields computed against now.
func Derive(task Task, now time.Time) Task {
	task.PriorityRank = PriorityRank(task.Priority)
	task.IsOverdue = task.DueDate != nil && task.DueDate.Before(now) && !task.Completed
	task.IsDueToday = task.DueOn(now) && !task.IsOverdue
	return task
}

// DeriveAll applies Derive to every task with the same now.
func DeriveAll(tasks []Task, now time.Time) []Task {
	derived := make([]Task, len(tasks))
	for i, t := range tasks {
		derived[i] = Derive(t, now)
	}
	return derived
}

// SameDate compares calendar dates, reading t in ref's location.
func SameDate(t, ref time.Time) bool {
	y1, m1, d1 := t.In(ref.Location()).Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
