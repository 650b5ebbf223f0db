package services

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"taskboard/internal/domain"
)

// searchServiceImpl implements the SearchService interface. It is pure and holds no state.
type searchServiceImpl struct{}

// NewSearchService creates a new SearchService instance
func NewSearchService() SearchService {
	return &searchServiceImpl{}
}

// Apply filters, sorts, then groups tasks. Tasks must already be derived against now.
func (s *searchServiceImpl) Apply(tasks []domain.Task, query domain.Query, now time.Time) *SearchResult {
	filtered := s.Sort(s.Filter(tasks, query, now), query.Sort)
	return &SearchResult{
		Tasks:  filtered,
		Groups: s.Group(filtered),
	}
}

// Filter keeps the tasks matching every active predicate, in input order
func (s *searchServiceImpl) Filter(tasks []domain.Task, query domain.Query, now time.Time) []domain.Task {
	needle := strings.ToLower(strings.TrimSpace(query.Search))

	result := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if !s.matchesSearch(task, needle) {
			continue
		}
		if query.FiltersCategory() && !strings.EqualFold(task.Category, query.Category) {
			continue
		}
		if !s.matchesStatus(task, query.Status, now) {
			continue
		}
		result = append(result, task)
	}
	return result
}

// matchesSearch expects needle to be lower-cased already
func (s *searchServiceImpl) matchesSearch(task domain.Task, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(task.Title), needle) ||
		strings.Contains(strings.ToLower(task.Description), needle)
}

func (s *searchServiceImpl) matchesStatus(task domain.Task, filter domain.StatusFilter, now time.Time) bool {
	switch filter {
	case domain.FilterCompleted:
		return task.Completed
	case domain.FilterPending:
		return !task.Completed
	case domain.FilterOverdue:
		return task.IsOverdue
	case domain.FilterToday:
		// raw due date, not IsDueToday
		return task.DueOn(now)
	default:
		return true
	}
}

// Sort returns a stably sorted copy; equal keys keep their input order in either direction
func (s *searchServiceImpl) Sort(tasks []domain.Task, order domain.SortOrder) []domain.Task {
	sorted := slices.Clone(tasks)
	if sorted == nil {
		sorted = []domain.Task{}
	}

	switch order {
	case domain.SortPriorityAsc:
		slices.SortStableFunc(sorted, func(a, b domain.Task) int {
			return cmp.Compare(a.PriorityRank, b.PriorityRank)
		})
	case domain.SortCreatedDesc:
		slices.SortStableFunc(sorted, func(a, b domain.Task) int {
			return compareCreated(b, a)
		})
	case domain.SortCreatedAsc:
		slices.SortStableFunc(sorted, compareCreated)
	default:
		slices.SortStableFunc(sorted, func(a, b domain.Task) int {
			return cmp.Compare(b.PriorityRank, a.PriorityRank)
		})
	}
	return sorted
}

// compareCreated orders by created_at, a missing value being the minimum instant
func compareCreated(a, b domain.Task) int {
	switch {
	case a.CreatedAt == nil && b.CreatedAt == nil:
		return 0
	case a.CreatedAt == nil:
		return -1
	case b.CreatedAt == nil:
		return 1
	default:
		return a.CreatedAt.Compare(*b.CreatedAt)
	}
}

// Group partitions tasks by category, categories in first-seen order
func (s *searchServiceImpl) Group(tasks []domain.Task) []CategoryGroup {
	groups := make([]CategoryGroup, 0)
	index := make(map[string]int)

	for _, task := range tasks {
		i, ok := index[task.Category]
		if !ok {
			i = len(groups)
			index[task.Category] = i
			groups = append(groups, CategoryGroup{Category: task.Category})
		}
		groups[i].Tasks = append(groups[i].Tasks, task)
	}
	return groups
}
