package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	require.NotNil(t, m)

	assert.NotNil(t, m.HTTPRequests)
	assert.NotNil(t, m.HTTPDuration)
	assert.NotNil(t, m.HTTPInFlight)
	assert.NotNil(t, m.ScheduleRequests)
	assert.NotNil(t, m.ScheduleTaskCount)
	assert.NotNil(t, m.ResolveDuration)
	assert.NotNil(t, m.AuthEvents)
	assert.NotNil(t, m.Errors)
}

func TestRecordHTTPRequest(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordHTTPRequest("POST", "POST /api/v1/projects/{projectId}/schedule", 200, 5*time.Millisecond)
	m.RecordHTTPRequest("POST", "POST /api/v1/projects/{projectId}/schedule", 200, 3*time.Millisecond)
	m.RecordHTTPRequest("POST", "POST /api/v1/projects/{projectId}/schedule", 400, time.Millisecond)

	ok := m.HTTPRequests.WithLabelValues("POST", "POST /api/v1/projects/{projectId}/schedule", "200")
	bad := m.HTTPRequests.WithLabelValues("POST", "POST /api/v1/projects/{projectId}/schedule", "400")
	assert.Equal(t, 2.0, testutil.ToFloat64(ok))
	assert.Equal(t, 1.0, testutil.ToFloat64(bad))
}

func TestRecordSchedule(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordSchedule(OutcomeOK, 4, 20*time.Microsecond)
	m.RecordSchedule(OutcomeCycle, 3, 10*time.Microsecond)
	m.RecordSchedule(OutcomeInvalid, 2, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScheduleRequests.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScheduleRequests.WithLabelValues(OutcomeCycle)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScheduleRequests.WithLabelValues(OutcomeInvalid)))

	expected := `
# HELP taskflow_schedule_task_count Number of tasks in schedule requests
# TYPE taskflow_schedule_task_count histogram
taskflow_schedule_task_count_bucket{le="1"} 0
taskflow_schedule_task_count_bucket{le="5"} 3
taskflow_schedule_task_count_bucket{le="10"} 3
taskflow_schedule_task_count_bucket{le="20"} 3
taskflow_schedule_task_count_bucket{le="50"} 3
taskflow_schedule_task_count_bucket{le="100"} 3
taskflow_schedule_task_count_bucket{le="200"} 3
taskflow_schedule_task_count_bucket{le="500"} 3
taskflow_schedule_task_count_bucket{le="1000"} 3
taskflow_schedule_task_count_bucket{le="+Inf"} 3
taskflow_schedule_task_count_sum 9
taskflow_schedule_task_count_count 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "taskflow_schedule_task_count"))

	// invalid requests never reach the resolver
	var out dto.Metric
	require.NoError(t, m.ResolveDuration.(prometheus.Metric).Write(&out))
	assert.Equal(t, uint64(2), out.GetHistogram().GetSampleCount())
}

func TestRecordAuthAndErrors(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordAuth("login", true)
	m.RecordAuth("login", false)
	m.RecordAuth("login", false)
	m.RecordError("SCHED-001")
	m.RecordError("")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthEvents.WithLabelValues("login", "true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthEvents.WithLabelValues("login", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues("SCHED-001")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues("unknown")))
}

func TestHandlerFor(t *testing.T) {
	reg, m := NewRegistry()
	m.RecordSchedule(OutcomeOK, 1, time.Microsecond)

	rec := httptest.NewRecorder()
	HandlerFor(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `taskflow_schedule_requests_total{outcome="ok"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}

func TestRouteHolder(t *testing.T) {
	ctx := WithRoute(context.Background())
	assert.Equal(t, "unmatched", Route(ctx))

	SetRoute(ctx, "GET /api/projects")
	assert.Equal(t, "GET /api/projects", Route(ctx))

	// unprepared contexts are ignored
	SetRoute(context.Background(), "GET /x")
	assert.Equal(t, "unmatched", Route(context.Background()))
}
