package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taskledger"

// PrometheusRecorder exports metrics through a Prometheus registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	recordsCreated *prometheus.CounterVec
	tasksUpdated   prometheus.Counter
	tasksDeleted   prometheus.Counter
	storeErrors    *prometheus.CounterVec
	requests       *prometheus.HistogramVec
}

// NewPrometheus creates a recorder with its own registry, including the Go
// runtime and process collectors.
func NewPrometheus() *PrometheusRecorder {
	reg := prometheus.NewRegistry()

	p := &PrometheusRecorder{
		registry: reg,
		recordsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_created_total",
			Help:      "Records created, by entity.",
		}, []string{"entity"}),
		tasksUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_updated_total",
			Help:      "Task update requests that completed without error.",
		}),
		tasksDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_deleted_total",
			Help:      "Task delete requests that completed without error.",
		}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Failed store calls, by operation and SQLSTATE class.",
		}, []string{"op", "class"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.recordsCreated,
		p.tasksUpdated,
		p.tasksDeleted,
		p.storeErrors,
		p.requests,
	)

	return p
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// IncUserCreated increments the user creation counter.
func (p *PrometheusRecorder) IncUserCreated() {
	p.recordsCreated.WithLabelValues("user").Inc()
}

// IncTaskCreated increments the task creation counter.
func (p *PrometheusRecorder) IncTaskCreated() {
	p.recordsCreated.WithLabelValues("task").Inc()
}

// IncTaskUpdated increments the task update counter.
func (p *PrometheusRecorder) IncTaskUpdated() {
	p.tasksUpdated.Inc()
}

// IncTaskDeleted increments the task delete counter.
func (p *PrometheusRecorder) IncTaskDeleted() {
	p.tasksDeleted.Inc()
}

// IncStoreError increments the store error counter.
func (p *PrometheusRecorder) IncStoreError(op, class string) {
	p.storeErrors.WithLabelValues(op, class).Inc()
}

// ObserveRequest records request latency.
func (p *PrometheusRecorder) ObserveRequest(method, route string, status int, duration time.Duration) {
	p.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
