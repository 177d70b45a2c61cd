// Package metrics exposes Prometheus counters for the API and the calculator
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	calculations      *prometheus.CounterVec
	calcDuration      prometheus.Histogram
	peakLoad          prometheus.Histogram
	publishErrors     prometheus.Counter
}

// New registers the collectors with reg. Use prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coolingload_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coolingload_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coolingload_calculations_total",
			Help: "Total calculations by month selection mode.",
		}, []string{"mode"}),
		calcDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "coolingload_calculation_duration_seconds",
			Help:    "Time spent on one calculation run.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}),
		peakLoad: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "coolingload_peak_total_watts",
			Help:    "Design-day peak total cooling load of calculated rooms.",
			Buckets: prometheus.ExponentialBuckets(250, 2, 10),
		}),
		publishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coolingload_mqtt_publish_errors_total",
			Help: "Total MQTT summary publishes that failed.",
		}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.calculations,
		m.calcDuration,
		m.peakLoad,
		m.publishErrors,
	)
	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler counts requests and their duration under route
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Calculation records one calculation run
func (m *Metrics) Calculation(worstMonth bool, duration time.Duration, peak float64) {
	if m == nil {
		return
	}
	mode := "fixed"
	if worstMonth {
		mode = "worst"
	}
	m.calculations.WithLabelValues(mode).Inc()
	m.calcDuration.Observe(duration.Seconds())
	m.peakLoad.Observe(peak)
}

// PublishError counts a failed MQTT publish
func (m *Metrics) PublishError() {
	if m == nil {
		return
	}
	m.publishErrors.Inc()
}
