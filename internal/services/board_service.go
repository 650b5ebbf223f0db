package services

import (
	"context"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/errors"
	"taskboard/internal/logging"
	"taskboard/internal/repository/sqlstore"
)

// boardServiceImpl implements the BoardService interface
type boardServiceImpl struct {
	repo      sqlstore.Repository
	mapper    *domain.Mapper
	search    SearchService
	reporting ReportingService
	clock     Clock
	loc       *time.Location
	log       *logging.Logger
}

// NewBoardService creates a new BoardService. now readings are converted to loc so that
// calendar-date comparisons happen in the configured timezone.
func NewBoardService(repo sqlstore.Repository, search SearchService, reporting ReportingService, clock Clock, loc *time.Location) BoardService {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &boardServiceImpl{
		repo:      repo,
		mapper:    domain.NewMapper(loc),
		search:    search,
		reporting: reporting,
		clock:     clock,
		loc:       loc,
		log:       logging.New("board"),
	}
}

// GetBoard loads every task of the user, then builds the filtered view and the whole-backlog statistics
func (b *boardServiceImpl) GetBoard(ctx context.Context, userID int64, query domain.Query) (*Board, error) {
	now := b.clock().In(b.loc)

	tasks, skipped, err := b.loadTasks(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	stats := b.reporting.Aggregate(tasks, now)
	result := b.search.Apply(tasks, query, now)

	return &Board{
		Tasks:   result.Tasks,
		Groups:  result.Groups,
		Filters: query,
		Stats:   stats,
		Skipped: skipped,
	}, nil
}

// GetStatistics computes the board statistics without building a view
func (b *boardServiceImpl) GetStatistics(ctx context.Context, userID int64) (*BoardStatistics, error) {
	now := b.clock().In(b.loc)

	tasks, _, err := b.loadTasks(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	stats := b.reporting.Aggregate(tasks, now)
	return &stats, nil
}

// loadTasks fetches, reconciles and derives. Records that cannot be reconciled are logged and skipped.
func (b *boardServiceImpl) loadTasks(ctx context.Context, userID int64, now time.Time) ([]domain.Task, int, error) {
	records, err := b.repo.FetchTasksForUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	tasks, errs := b.mapper.Record.FromRecords(records)
	for _, recErr := range errs {
		field := ""
		if appErr, ok := errors.AsAppError(recErr); ok {
			if f, ok := appErr.GetContext("field"); ok {
				field, _ = f.(string)
			}
		}
		b.log.Warn("skipping malformed task record", "user_id", userID, "field", field, "error", recErr)
	}

	logging.Debugf("board: user %d has %d tasks (%d skipped)", userID, len(tasks), len(errs))
	return domain.DeriveAll(tasks, now), len(errs), nil
}
