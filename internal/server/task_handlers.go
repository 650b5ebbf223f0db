package server

import (
	"net/http"

	"taskboard/internal/domain"
	"taskboard/internal/validation"
)

type moveRequest struct {
	Status string `json:"status"`
}

func taskFormFields(form *validation.TaskForm) map[string]*string {
	return map[string]*string{
		"title":       &form.Title,
		"description": &form.Description,
		"priority":    &form.Priority,
		"category":    &form.Category,
		"due_date":    &form.DueDate,
		"status":      &form.Status,
	}
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFrom(r.Context())
	params := r.URL.Query()
	query := domain.ParseQuery(params.Get("q"), params.Get("status"), params.Get("category"), params.Get("sort"))

	board, err := s.svc.BoardService.GetBoard(r.Context(), session.UserID, query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFrom(r.Context())

	stats, err := s.svc.BoardService.GetStatistics(r.Context(), session.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFrom(r.Context())

	var form validation.TaskForm
	if err := decodeForm(w, r, &form, taskFormFields(&form)); err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.svc.TaskService.CreateTask(r.Context(), session.UserID, form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleEditTask(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var form validation.TaskForm
	if err := decodeForm(w, r, &form, taskFormFields(&form)); err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.svc.TaskService.UpdateTask(r.Context(), session.UserID, id, form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.svc.TaskService.ToggleTask(r.Context(), session.UserID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "message": "Task status updated"})
}

func (s *Server) handleMoveTask(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req moveRequest
	if err := decodeForm(w, r, &req, map[string]*string{"status": &req.Status}); err != nil {
		s.writeError(w, r, err)
		return
	}

	status, err := s.svc.TaskService.MoveTask(r.Context(), session.UserID, id, req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": status, "message": "Task moved successfully"})
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.svc.TaskService.DeleteTask(r.Context(), session.UserID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "message": "Task deleted successfully"})
}
