package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "captionq"

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	submissionsIngested *prometheus.CounterVec
	transitions         *prometheus.CounterVec
	tonesResolved       *prometheus.CounterVec
	notifications       *prometheus.CounterVec
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissionsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_ingested_total",
			Help:      "Submissions created, by source and sound type",
		}, []string{"source", "sound_type"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Lifecycle operations, by operation and result",
		}, []string{"operation", "result"}),
		tonesResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tones_resolved_total",
			Help:      "Caption tones actually used",
		}, []string{"tone"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Outbound notifications, by delivery status",
		}, []string{"status"}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}

	m.registry.MustRegister(
		m.submissionsIngested,
		m.transitions,
		m.tonesResolved,
		m.notifications,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveIngest(source, soundType string) {
	if m == nil {
		return
	}
	m.submissionsIngested.WithLabelValues(source, soundType).Inc()
}

func (m *Metrics) ObserveTransition(operation, result string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) ObserveTone(tone string) {
	if m == nil {
		return
	}
	m.tonesResolved.WithLabelValues(tone).Inc()
}

func (m *Metrics) ObserveNotification(status string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if m == nil {
			return
		}
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}
