package validation

import (
	"fmt"

	"taskboard/internal/domain"
)

// TaskForm holds the raw fields submitted when creating or editing a task
type TaskForm struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
}

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator(v *Validator) *TaskValidator {
	if v == nil {
		v = NewValidator()
	}
	return &TaskValidator{
		validator: v,
	}
}

// ValidateTaskForm validates a submitted form and returns the normalized task fields.
// Priority, category and status never fail: they fall back to Medium, General and todo.
func (tv *TaskValidator) ValidateTaskForm(form TaskForm) (domain.Task, error) {
	validationError := NewValidationError()

	title := tv.validator.TrimAndValidateString(form.Title)
	maxLen := tv.validator.titleMaxLength()
	if !tv.validator.IsNonEmptyString(title) {
		validationError.AddError("title", ErrorTypeRequired, "Task title is required", nil)
	} else if !tv.validator.IsValidStringLength(title, 1, maxLen) {
		validationError.AddError("title", ErrorTypeInvalidLength,
			fmt.Sprintf("Task title too long (max %d characters)", maxLen), title)
	}

	due, ok := tv.validator.ParseDueDate(form.DueDate)
	if !ok {
		validationError.AddError("due_date", ErrorTypeInvalidFormat, "Invalid due date format", form.DueDate)
	}

	if err := validationError.OrNil(); err != nil {
		return domain.Task{}, err
	}

	status, _ := domain.ParseStatus(form.Status)
	return domain.Task{
		Title:       title,
		Description: tv.validator.TrimAndValidateString(form.Description),
		Status:      status,
		Completed:   status == domain.StatusDone,
		Priority:    domain.NormalizePriority(form.Priority),
		Category:    domain.NormalizeCategory(form.Category),
		DueDate:     due,
	}, nil
}

// ValidateMoveStatus checks the target column of a move, which must be one of the known statuses
func (tv *TaskValidator) ValidateMoveStatus(raw string) (domain.Status, error) {
	status, ok := domain.ParseStatus(raw)
	if !ok {
		validationError := NewValidationError()
		validationError.AddError("status", ErrorTypeInvalidValue, "Invalid status", raw)
		return "", validationError
	}
	return status, nil
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id int64) error {
	if !tv.validator.IsValidID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("task_id", id, "must be a positive integer")
		return validationError
	}
	return nil
}
