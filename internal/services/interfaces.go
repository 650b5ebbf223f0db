package services

import (
	"context"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository/sqlstore"
	"taskboard/internal/validation"
)

// Clock supplies the current instant. Every read takes one reading and uses it throughout.
type Clock func() time.Time

// CategoryGroup holds the tasks of one category in display order
type CategoryGroup struct {
	Category string        `json:"category"`
	Tasks    []domain.Task `json:"tasks"`
}

// SearchResult is the outcome of the query pipeline
type SearchResult struct {
	Tasks  []domain.Task   `json:"tasks"`
	Groups []CategoryGroup `json:"groups"`
}

// BoardStatistics summarizes a user's full task set, independent of any filter
type BoardStatistics struct {
	Overdue  int `json:"overdue"`
	DueToday int `json:"due_today"`
	DueWeek  int `json:"due_week"`
	Total    int `json:"total"`
}

// Board is everything a board view needs
type Board struct {
	Tasks   []domain.Task   `json:"tasks"`
	Groups  []CategoryGroup `json:"groups"`
	Filters domain.Query    `json:"filters"`
	Stats   BoardStatistics `json:"stats"`
	Skipped int             `json:"skipped"`
}

// Account is the public view of a user
type Account struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// BoardService assembles the read-side board for a user
type BoardService interface {
	GetBoard(ctx context.Context, userID int64, query domain.Query) (*Board, error)
	GetStatistics(ctx context.Context, userID int64) (*BoardStatistics, error)
}

// SearchService handles filtering, sorting and grouping
type SearchService interface {
	Apply(tasks []domain.Task, query domain.Query, now time.Time) *SearchResult
	Filter(tasks []domain.Task, query domain.Query, now time.Time) []domain.Task
	Sort(tasks []domain.Task, order domain.SortOrder) []domain.Task
	Group(tasks []domain.Task) []CategoryGroup
}

// ReportingService handles board statistics
type ReportingService interface {
	Aggregate(tasks []domain.Task, now time.Time) BoardStatistics
}

// TaskService handles task mutations. Every operation is scoped to the owning user.
type TaskService interface {
	CreateTask(ctx context.Context, userID int64, form validation.TaskForm) (*domain.Task, error)
	UpdateTask(ctx context.Context, userID, taskID int64, form validation.TaskForm) (*domain.Task, error)
	ToggleTask(ctx context.Context, userID, taskID int64) error
	MoveTask(ctx context.Context, userID, taskID int64, status string) (domain.Status, error)
	DeleteTask(ctx context.Context, userID, taskID int64) error
}

// AccountService handles registration, authentication and credential changes
type AccountService interface {
	Signup(ctx context.Context, form validation.SignupForm) (*Account, error)
	Login(ctx context.Context, username, password string) (*Account, error)
	GetAccount(ctx context.Context, userID int64) (*Account, error)
	FindByUsername(ctx context.Context, username string) (*Account, error)
	ChangeUsername(ctx context.Context, userID int64, currentPassword, newUsername string) (*Account, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	Repo             sqlstore.Repository
	BoardService     BoardService
	SearchService    SearchService
	ReportingService ReportingService
	TaskService      TaskService
	AccountService   AccountService
}
