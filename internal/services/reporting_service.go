package services

import (
	"time"

	"taskboard/internal/domain"
)

// dueWeekWindow is the look-ahead of the due-this-week count
const dueWeekWindow = 7 * 24 * time.Hour

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct{}

// NewReportingService creates a new ReportingService instance
func NewReportingService() ReportingService {
	return &reportingServiceImpl{}
}

// Aggregate counts over the full task set. Tasks must already be derived against now.
func (r *reportingServiceImpl) Aggregate(tasks []domain.Task, now time.Time) BoardStatistics {
	var stats BoardStatistics
	weekEnd := now.Add(dueWeekWindow)

	for _, task := range tasks {
		if task.Completed {
			continue
		}
		stats.Total++

		if task.IsOverdue {
			stats.Overdue++
		}
		if task.IsDueToday && !task.IsOverdue {
			stats.DueToday++
		}
		if task.DueDate != nil && !task.DueDate.Before(now) && !task.DueDate.After(weekEnd) {
			stats.DueWeek++
		}
	}
	return stats
}
