package services

import (
	"taskboard/internal/config"
	"taskboard/internal/metrics"
	"taskboard/internal/repository/sqlstore"
	"taskboard/internal/validation"
)

// NewServiceContainer wires every service against one repository. recorder and clock may be nil.
func NewServiceContainer(repo sqlstore.Repository, cfg *config.Config, recorder metrics.Recorder, clock Clock) (*ServiceContainer, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	v := validation.NewValidatorWithConfig(cfg)
	search := NewSearchService()
	reporting := NewReportingService()

	return &ServiceContainer{
		Repo:             repo,
		BoardService:     NewBoardService(repo, search, reporting, clock, loc),
		SearchService:    search,
		ReportingService: reporting,
		TaskService:      NewTaskService(repo, v, recorder, clock, loc),
		AccountService:   NewAccountService(repo, v, 0, clock),
	}, nil
}
