package services

import (
	"context"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/errors"
	"taskboard/internal/logging"
	"taskboard/internal/metrics"
	"taskboard/internal/repository/sqlstore"
	"taskboard/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo          sqlstore.Repository
	mapper        *domain.Mapper
	taskValidator *validation.TaskValidator
	recorder      metrics.Recorder
	clock         Clock
	loc           *time.Location
	log           *logging.Logger
}

// NewTaskService creates a new TaskService instance. recorder may be nil.
func NewTaskService(repo sqlstore.Repository, v *validation.Validator, recorder metrics.Recorder, clock Clock, loc *time.Location) TaskService {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	if recorder == nil {
		recorder = (*metrics.Metrics)(nil)
	}
	return &taskServiceImpl{
		repo:          repo,
		mapper:        domain.NewMapper(loc),
		taskValidator: validation.NewTaskValidator(v),
		recorder:      recorder,
		clock:         clock,
		loc:           loc,
		log:           logging.New("tasks"),
	}
}

// asValidationFailure lifts a field-level ValidationError into an AppError carrying its user message
func asValidationFailure(err error) error {
	if ve, ok := validation.AsValidationError(err); ok {
		return errors.NewValidationError(ve.GetUserFriendlyMessage(), ve)
	}
	return err
}

// CreateTask validates the form and stores a new task owned by userID
func (t *taskServiceImpl) CreateTask(ctx context.Context, userID int64, form validation.TaskForm) (*domain.Task, error) {
	task, err := t.taskValidator.ValidateTaskForm(form)
	if err != nil {
		t.log.Warn("task creation rejected", "user_id", userID, "error", err)
		return nil, asValidationFailure(err)
	}

	now := t.clock().In(t.loc)
	id, err := t.repo.CreateTask(ctx, userID, t.mapper.Record.ToInput(task), now)
	if err != nil {
		return nil, err
	}

	task.ID = id
	task.CreatedAt = &now
	task = domain.Derive(task, now)

	t.recorder.RecordTaskOperation(metrics.OpCreate)
	t.log.Info("task created", "user_id", userID, "task_id", id, "title", task.Title)
	return &task, nil
}

// UpdateTask replaces the editable fields of a task, status included
func (t *taskServiceImpl) UpdateTask(ctx context.Context, userID, taskID int64, form validation.TaskForm) (*domain.Task, error) {
	if err := t.taskValidator.ValidateTaskID(taskID); err != nil {
		return nil, asValidationFailure(err)
	}
	task, err := t.taskValidator.ValidateTaskForm(form)
	if err != nil {
		return nil, asValidationFailure(err)
	}

	if err := t.repo.UpdateTask(ctx, userID, taskID, t.mapper.Record.ToInput(task)); err != nil {
		return nil, err
	}

	task.ID = taskID
	if stored, ok := t.reload(ctx, userID, taskID); ok {
		task = stored
	}
	task = domain.Derive(task, t.clock().In(t.loc))

	t.recorder.RecordTaskOperation(metrics.OpUpdate)
	t.log.Info("task updated", "user_id", userID, "task_id", taskID)
	return &task, nil
}

// reload reads a task back as stored so fields the edit form does not carry, such as
// created_at, are filled in
func (t *taskServiceImpl) reload(ctx context.Context, userID, taskID int64) (domain.Task, bool) {
	records, err := t.repo.FetchTasksForUser(ctx, userID)
	if err != nil {
		t.log.Warn("could not reload updated task", "user_id", userID, "task_id", taskID, "error", err)
		return domain.Task{}, false
	}
	tasks, _ := t.mapper.Record.FromRecords(records)
	for _, task := range tasks {
		if task.ID == taskID {
			return task, true
		}
	}
	return domain.Task{}, false
}

// ToggleTask flips a task between done and todo
func (t *taskServiceImpl) ToggleTask(ctx context.Context, userID, taskID int64) error {
	if err := t.taskValidator.ValidateTaskID(taskID); err != nil {
		return asValidationFailure(err)
	}
	if err := t.repo.ToggleTask(ctx, userID, taskID); err != nil {
		return err
	}

	t.recorder.RecordTaskOperation(metrics.OpToggle)
	t.log.Info("task toggled", "user_id", userID, "task_id", taskID)
	return nil
}

// MoveTask puts a task into another column. Unlike create and edit, an unknown status is rejected.
func (t *taskServiceImpl) MoveTask(ctx context.Context, userID, taskID int64, status string) (domain.Status, error) {
	if err := t.taskValidator.ValidateTaskID(taskID); err != nil {
		return "", asValidationFailure(err)
	}
	target, err := t.taskValidator.ValidateMoveStatus(status)
	if err != nil {
		return "", asValidationFailure(err)
	}

	if err := t.repo.MoveTask(ctx, userID, taskID, string(target)); err != nil {
		return "", err
	}

	t.recorder.RecordTaskOperation(metrics.OpMove)
	t.log.Info("task moved", "user_id", userID, "task_id", taskID, "status", target)
	return target, nil
}

// DeleteTask removes a task
func (t *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID int64) error {
	if err := t.taskValidator.ValidateTaskID(taskID); err != nil {
		return asValidationFailure(err)
	}
	if err := t.repo.DeleteTask(ctx, userID, taskID); err != nil {
		return err
	}

	t.recorder.RecordTaskOperation(metrics.OpDelete)
	t.log.Info("task deleted", "user_id", userID, "task_id", taskID)
	return nil
}
