package bridge

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prompt_enhancer_http_requests_total",
			Help: "HTTP requests served by the bridge.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "prompt_enhancer_operation_duration_seconds",
			Help:    "Time spent in boundary operations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"op"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prompt_enhancer_operation_results_total",
			Help: "Boundary operation results by success flag.",
		}, []string{"op", "success"}),
	}
	m.registry.MustRegister(m.requests, m.duration, m.outcomes)
	return m
}

func (m *metrics) observe(op string, start time.Time, success bool) {
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	m.outcomes.WithLabelValues(op, strconv.FormatBool(success)).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
