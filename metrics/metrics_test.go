package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	m := New()

	m.ObserveHTTP("/generate-plan", "200")
	m.ObserveHTTP("/generate-plan", "200")
	m.ObservePlan(5, 2)
	m.ObserveAI("ok", 1500*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/generate-plan", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.skippedLines))
	assert.Equal(t, 1, testutil.CollectAndCount(m.aiDuration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("/health", "200")
		m.ObserveAI("ok", time.Second)
		m.ObservePlan(1, 0)
	})
	assert.Nil(t, m.Registry())
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObservePlan(3, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "studyplanner_plan_entries_count 1")
}
