package server

import (
	"net/http"

	"taskboard/internal/logging"
)

type healthResponse struct {
	Status      string `json:"status"`
	TasksCount  int64  `json:"tasks_count"`
	Environment string `json:"environment"`
	Database    string `json:"database"`
	Error       string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Environment: s.cfg.Application.Environment,
		Database:    s.svc.Repo.Dialect().String(),
	}

	err := s.svc.Repo.Ping(r.Context())
	if err == nil {
		resp.TasksCount, err = s.svc.Repo.CountTasks(r.Context())
	}
	if err != nil {
		s.log.Error("health check failed", "error", err)
		resp.Status = "unhealthy"
		resp.Error = err.Error()
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}

	resp.Status = "healthy"
	logging.Debugf("server: health ok, %d tasks", resp.TasksCount)
	writeJSON(w, http.StatusOK, resp)
}
