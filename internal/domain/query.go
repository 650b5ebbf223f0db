package domain

import (
	"strings"
)

// StatusFilter selects tasks by completion or due state
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterCompleted StatusFilter = "completed"
	FilterPending   StatusFilter = "pending"
	FilterOverdue   StatusFilter = "overdue"
	FilterToday     StatusFilter = "today"
)

// ParseStatusFilter normalizes a raw filter value; unknown values disable filtering.
func ParseStatusFilter(raw string) StatusFilter {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(raw))); f {
	case FilterCompleted, FilterPending, FilterOverdue, FilterToday:
		return f
	default:
		return FilterAll
	}
}

// SortOrder defines how board results are ordered
type SortOrder string

const (
	SortPriorityDesc SortOrder = "priority_desc" // default
	SortPriorityAsc  SortOrder = "priority_asc"
	SortCreatedDesc  SortOrder = "created_desc"
	SortCreatedAsc   SortOrder = "created_asc"
)

// ParseSortOrder normalizes a raw sort value; unknown values fall back to priority_desc.
func ParseSortOrder(raw string) SortOrder {
	switch s := SortOrder(strings.ToLower(strings.TrimSpace(raw))); s {
	case SortPriorityAsc, SortCreatedDesc, SortCreatedAsc:
		return s
	default:
		return SortPriorityDesc
	}
}

// CategoryAll is the sentinel that disables the category filter
const CategoryAll = "all"

// Query holds the normalized view parameters of the board.
type Query struct {
	Search   string       `json:"q"`
	Status   StatusFilter `json:"status"`
	Category string       `json:"category"`
	Sort     SortOrder    `json:"sort"`
}

// ParseQuery builds a Query from raw request parameters. It never fails.
func ParseQuery(search, status, category, sort string) Query {
	category = strings.TrimSpace(category)
	if category == "" {
		category = CategoryAll
	}
	return Query{
		Search:   strings.TrimSpace(search),
		Status:   ParseStatusFilter(status),
		Category: category,
		Sort:     ParseSortOrder(sort),
	}
}

// DefaultQuery shows every task in priority order
func DefaultQuery() Query {
	return ParseQuery("", "", "", "")
}

// FiltersCategory reports whether the category filter is active
func (q Query) FiltersCategory() bool {
	return q.Category != "" && !strings.EqualFold(q.Category, CategoryAll)
}
