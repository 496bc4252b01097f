package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the registry for backend call and view metrics.
type Collector struct {
	registry      *prometheus.Registry
	backendCalls  *prometheus.CounterVec
	backendTimes  *prometheus.HistogramVec
	notifications *prometheus.CounterVec
	pageSessions  prometheus.Gauge
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		backendCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "larder_backend_requests_total",
				Help: "Inventory backend requests by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		backendTimes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "larder_backend_request_duration_seconds",
				Help:    "Inventory backend request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "larder_notifications_total",
				Help: "User notifications raised by action and level",
			},
			[]string{"action", "level"},
		),
		pageSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "larder_page_sessions",
				Help: "Live inventory page sessions",
			},
		),
	}

	registry.MustRegister(
		c.backendCalls,
		c.backendTimes,
		c.notifications,
		c.pageSessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveCall records one backend round trip.
func (c *Collector) ObserveCall(endpoint, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.backendCalls.WithLabelValues(endpoint, outcome).Inc()
	c.backendTimes.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (c *Collector) Notified(action, level string) {
	if c == nil {
		return
	}
	c.notifications.WithLabelValues(action, level).Inc()
}

func (c *Collector) SetPageSessions(n int) {
	if c == nil {
		return
	}
	c.pageSessions.Set(float64(n))
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
