package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMetrics_RecordTaskOperation(t *testing.T) {
	m := New()

	m.RecordTaskOperation(OpCreate)
	m.RecordTaskOperation(OpCreate)
	m.RecordTaskOperation(OpDelete)

	body := scrape(t, m)
	assert.Contains(t, body, `task_operations_total{operation="create"} 2`)
	assert.Contains(t, body, `task_operations_total{operation="delete"} 1`)
	assert.NotContains(t, body, `task_operations_total{operation="move"}`)
}

func TestMetrics_NilRecorderIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.RecordTaskOperation(OpToggle) })
}

func TestMetrics_Middleware(t *testing.T) {
	m := New()
	handler := m.Middleware(func(r *http.Request) string { return r.Pattern }, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	body := scrape(t, m)
	assert.Contains(t, body, `http_requests_total{endpoint="unknown",method="GET",status="418"} 1`)
	assert.Contains(t, body, `http_request_duration_seconds_count{endpoint="unknown",method="GET"} 1`)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	assert.NotNil(t, m.Registry())
	assert.Contains(t, scrape(t, m), "go_goroutines")
}
