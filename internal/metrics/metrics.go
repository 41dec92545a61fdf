package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes capture metrics that are safe to scrape via Prometheus.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	captures          *prometheus.CounterVec
	captureDuration   prometheus.Histogram
	resizes           *prometheus.CounterVec
	deviceValidations *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
}

// New creates a fresh Metrics registry with capture metrics registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	captures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ios_screenshot",
		Name:      "captures_total",
		Help:      "Screenshot capture requests by outcome and error code",
	}, []string{"outcome", "code"})

	captureDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ios_screenshot",
		Name:      "capture_duration_seconds",
		Help:      "Duration of the full capture pipeline",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})

	resizes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ios_screenshot",
		Name:      "resizes_total",
		Help:      "Resize step results (resized, skipped, failed, disabled)",
	}, []string{"status"})

	deviceValidations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ios_screenshot",
		Name:      "device_validations_total",
		Help:      "Device ID validations by result (valid or the rejection reason)",
	}, []string{"result"})

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ios_screenshot",
		Name:      "http_requests_total",
		Help:      "Requests served by the metrics listener",
	}, []string{"path", "status"})

	registry.MustRegister(
		captures,
		captureDuration,
		resizes,
		deviceValidations,
		httpRequests,
	)

	return &Metrics{
		registry:          registry,
		captures:          captures,
		captureDuration:   captureDuration,
		resizes:           resizes,
		deviceValidations: deviceValidations,
		httpRequests:      httpRequests,
	}
}

// ObserveCapture records one pipeline run.
func (m *Metrics) ObserveCapture(success bool, code string, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	if code == "" {
		code = "none"
	}
	m.captures.WithLabelValues(outcome, code).Inc()
	m.captureDuration.Observe(duration.Seconds())
}

// IncResize records the result of a resize step.
func (m *Metrics) IncResize(status string) {
	if m == nil {
		return
	}
	m.resizes.WithLabelValues(status).Inc()
}

// IncDeviceValidation records a device validation. result is "valid" or the
// rejection reason.
func (m *Metrics) IncDeviceValidation(result string) {
	if m == nil {
		return
	}
	m.deviceValidations.WithLabelValues(result).Inc()
}

// ObserveHTTPRequest records a request to the metrics listener.
func (m *Metrics) ObserveHTTPRequest(path string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(path, strconv.Itoa(status)).Inc()
}

// Handler exposes the Prometheus registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("metrics unavailable"))
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
