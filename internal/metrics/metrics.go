package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Schedule request outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeCycle   = "cycle"
	OutcomeInvalid = "invalid"
)

// Metrics holds all Prometheus metrics for taskflow
type Metrics struct {
	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Scheduling metrics
	ScheduleRequests  *prometheus.CounterVec
	ScheduleTaskCount prometheus.Histogram
	ResolveDuration   prometheus.Histogram

	// Auth metrics
	AuthEvents *prometheus.CounterVec

	// Error metrics (by error code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskflow_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskflow_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "taskflow_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),

		ScheduleRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskflow_schedule_requests_total",
				Help: "Total number of schedule requests by outcome",
			},
			[]string{"outcome"},
		),
		ScheduleTaskCount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "taskflow_schedule_task_count",
				Help:    "Number of tasks in schedule requests",
				Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
			},
		),
		ResolveDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "taskflow_resolve_duration_seconds",
				Help:    "Time spent ordering tasks",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),

		AuthEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskflow_auth_events_total",
				Help: "Total number of register and login attempts",
			},
			[]string{"event", "success"},
		),

		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskflow_errors_total",
				Help: "Total number of errors by error code",
			},
			[]string{"error_code"},
		),
	}
}

// RecordHTTPRequest records one served request. route is the mux pattern,
// not the raw path, to keep label cardinality bounded.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordSchedule records the outcome of a schedule request.
func (m *Metrics) RecordSchedule(outcome string, taskCount int, resolve time.Duration) {
	m.ScheduleRequests.WithLabelValues(outcome).Inc()
	m.ScheduleTaskCount.Observe(float64(taskCount))
	if resolve > 0 {
		m.ResolveDuration.Observe(resolve.Seconds())
	}
}

// RecordAuth records a register or login attempt.
func (m *Metrics) RecordAuth(event string, success bool) {
	m.AuthEvents.WithLabelValues(event, strconv.FormatBool(success)).Inc()
}

// RecordError counts an error by its code. Empty codes are counted as
// "unknown".
func (m *Metrics) RecordError(code string) {
	if code == "" {
		code = "unknown"
	}
	m.Errors.WithLabelValues(code).Inc()
}
