// Package metrics exposes Prometheus metrics for the HTTP surface and the
// analytics jobs.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hrinsight/internal/domain/attrition"
)

const namespace = "hrinsight"

type Manager struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         prometheus.Counter

	recalculations       prometheus.Counter
	recalcDuration       prometheus.Histogram
	employeesScored      prometheus.Counter
	riskLevelEmployees   *prometheus.GaugeVec
	escalations          prometheus.Counter
	eventPublishFailures prometheus.Counter
}

// New registers every metric on a private registry together with the Go and
// process collectors.
func New() *Manager {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Manager{
		registry: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		rateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		recalculations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attrition",
			Name:      "recalculations_total",
			Help:      "Completed attrition recalculation batches.",
		}),
		recalcDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "attrition",
			Name:      "recalculation_duration_seconds",
			Help:      "Duration of attrition recalculation batches.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		employeesScored: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attrition",
			Name:      "employees_scored_total",
			Help:      "Risk history points appended.",
		}),
		riskLevelEmployees: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "attrition",
			Name:      "employees_by_level",
			Help:      "Employees per risk level in the latest batch.",
		}, []string{"level"}),
		escalations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attrition",
			Name:      "escalations_total",
			Help:      "Employees whose risk level rose to high.",
		}),
		eventPublishFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "publish_failures_total",
			Help:      "Risk events that could not be published.",
		}),
	}
}

func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Manager) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
	if status == http.StatusTooManyRequests {
		m.rateLimited.Inc()
	}
}

func (m *Manager) ObserveRecalculation(summary attrition.RecalcSummary, elapsed time.Duration) {
	m.recalculations.Inc()
	m.recalcDuration.Observe(elapsed.Seconds())
	m.employeesScored.Add(float64(summary.Processed))
	m.riskLevelEmployees.WithLabelValues(attrition.LevelHigh).Set(float64(summary.High))
	m.riskLevelEmployees.WithLabelValues(attrition.LevelMedium).Set(float64(summary.Medium))
	m.riskLevelEmployees.WithLabelValues(attrition.LevelLow).Set(float64(summary.Low))
	m.escalations.Add(float64(len(summary.Escalated)))
}

func (m *Manager) PublishFailed() {
	m.eventPublishFailures.Inc()
}
