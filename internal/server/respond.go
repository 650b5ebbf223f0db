package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"taskboard/internal/errors"
)

// maxBodyBytes bounds request bodies read by decodeForm
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// errorResponse is the body of every failed request
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError maps err onto a status and a user-safe message, logging server-side failures
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if errors.ShouldLogError(err) {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path,
			"request_id", RequestIDFrom(r.Context()), "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.GetUserMessage(err),
		Code:      errors.GetErrorCode(err),
		RequestID: RequestIDFrom(r.Context()),
	})
}

// decodeForm fills dst from a JSON body, or from URL-encoded form values keyed by the JSON field names
func decodeForm(w http.ResponseWriter, r *http.Request, dst any, fields map[string]*string) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return errors.NewInvalidInputError("body", nil, "invalid json")
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return errors.NewInvalidInputError("body", nil, "invalid form")
	}
	for name, ptr := range fields {
		*ptr = r.PostForm.Get(name)
	}
	return nil
}

// pathID parses the {id} segment of a task route
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidInputError("id", raw, "must be a positive integer")
	}
	return id, nil
}
